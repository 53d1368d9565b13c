package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sgtool/common"
	"sgtool/dump"
	"sgtool/snapgene"
	"sgtool/state"
)

// dumpFile produces handler writing one dump file per requested format.
// Failure of a single format does not prevent the others.
func dumpFile(formats []common.DumpFmt) fileHandler {
	return func(ctx context.Context, data []byte, src, dst string, log *zap.Logger) error {
		env := state.EnvFromContext(ctx)
		cfg := &env.Cfg.Document.Dump

		segs, err := snapgene.Parse(data)
		if err != nil {
			return fmt.Errorf("unable to parse SnapGene source (%s): %w", src, err)
		}
		log.Debug("File decoded", zap.String("from", src), zap.Int("segments", len(segs)), zap.Binary("ids", snapgene.IDs(segs)))

		var errs error
		for _, format := range formats {
			outputName := buildOutputPath(src, dst, cfg.Suffix, format.Ext(), env)
			if err := prepareOutput(outputName, env, log); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}

			switch format {
			case common.DumpFmtCsv:
				err = writeFile(outputName, func(w io.Writer) error {
					return dump.CSV(w, segs)
				})
			case common.DumpFmtTxt:
				err = writeFile(outputName, func(w io.Writer) error {
					return dump.Text(w, segs, cfg.ContentLimit)
				})
			case common.DumpFmtSqlite:
				err = dump.SQLite(outputName, src, segs)
			default:
				err = fmt.Errorf("unsupported dump format: %s", format)
			}
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("unable to write %s dump: %w", format, err))
				continue
			}

			log.Info("Dump written", zap.Stringer("format", format), zap.String("to", outputName))
			storeResult(env, dst, outputName)
		}
		return errs
	}
}

// writeFile creates file and hands buffered writer to fn.
func writeFile(name string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}
