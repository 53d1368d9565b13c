package process

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sgtool/snapgene"
	"sgtool/state"
)

// edits requested for resave, removals are applied first in command line
// order, each removing only the first matching segment.
type edits struct {
	remove   []byte
	flags    byte
	setFlags bool
}

func (e edits) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if len(e.remove) > 0 {
		enc.AddBinary("remove", e.remove)
	}
	if e.setFlags {
		enc.AddUint8("flags", e.flags)
	}
	return nil
}

func (e edits) apply(segs []snapgene.Segment, log *zap.Logger) []snapgene.Segment {
	for _, id := range e.remove {
		before := len(segs)
		segs = snapgene.RemoveFirst(segs, id)
		if len(segs) == before {
			log.Warn("Segment not found, nothing removed", zap.Uint8("id", id))
		}
	}
	if e.setFlags {
		var ok bool
		if segs, ok = snapgene.SetTypeFlags(segs, e.flags); !ok {
			log.Warn("No sequence segment, type flags not changed", zap.Uint8("flags", e.flags))
		}
	}
	return segs
}

// resaveFile produces handler decoding source, applying edits and encoding
// result back.
func resaveFile(ed edits) fileHandler {
	return func(ctx context.Context, data []byte, src, dst string, log *zap.Logger) error {
		env := state.EnvFromContext(ctx)
		cfg := &env.Cfg.Document.Resave

		segs, err := snapgene.Parse(data)
		if err != nil {
			return fmt.Errorf("unable to parse SnapGene source (%s): %w", src, err)
		}
		segs = ed.apply(segs, log)

		outputName := buildOutputPath(src, dst, cfg.Suffix, cfg.Extension, env)
		if err := prepareOutput(outputName, env, log); err != nil {
			return err
		}
		err = writeFile(outputName, func(w io.Writer) error {
			_, err := snapgene.WriteTo(w, segs)
			return err
		})
		if err != nil {
			return fmt.Errorf("unable to write resaved file: %w", err)
		}

		log.Info("File resaved", zap.String("to", outputName), zap.Binary("ids", snapgene.IDs(segs)))
		storeResult(env, dst, outputName)
		return nil
	}
}
