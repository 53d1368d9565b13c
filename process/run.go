// Package process implements command line actions working on SnapGene files:
// locating inputs, decoding, rendering dumps, editing and resaving.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"sgtool/common"
	"sgtool/snapgene"
	"sgtool/state"
)

// Dump renders every SnapGene file found in source in requested formats.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	src, dst, err := prepareRun(ctx, cmd, log)
	if err != nil {
		return err
	}

	formats := env.Cfg.Document.Dump.Formats
	if to := cmd.String("to"); len(to) > 0 {
		if formats, err = common.ParseDumpFmts(to); err != nil {
			return fmt.Errorf("unable to parse requested dump formats: %w", err)
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringers("formats", formats))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, dumpFile(formats), log)
}

// Resave decodes every SnapGene file found in source, applies requested edits
// and writes result back in SnapGene format.
func Resave(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resave")

	var (
		ed  edits
		err error
	)
	if ed.remove, err = parseIDs(cmd.StringSlice("remove")); err != nil {
		return err
	}
	if f := cmd.String("flags"); len(f) > 0 {
		if ed.flags, err = parseByte(f); err != nil {
			return fmt.Errorf("bad sequence type flags: %w", err)
		}
		ed.setFlags = true
	}

	src, dst, err := prepareRun(ctx, cmd, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Object("edits", ed))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, resaveFile(ed), log)
}

// Flags prints meaning of sequence type flags byte.
func Flags(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("exactly one flags value expected")
	}
	flags, err := parseByte(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("bad sequence type flags: %w", err)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, label := range snapgene.Describe(flags) {
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}
	return nil
}

// prepareRun interprets common command line: source, destination and
// processing options stored in environment.
func prepareRun(ctx context.Context, cmd *cli.Command, log *zap.Logger) (src, dst string, err error) {
	env := state.EnvFromContext(ctx)

	src = cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}

	dst = cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = defaultDestination(src); err != nil {
			return "", "", err
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}
	return src, dst, nil
}

// defaultDestination puts results of a single file next to it, everything
// else goes to the current working directory.
func defaultDestination(src string) (string, error) {
	if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
		if arc, err := isArchiveFile(src); err == nil && !arc {
			return filepath.Dir(src), nil
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get working directory: %w", err)
	}
	return dir, nil
}

// parseByte accepts decimal, hex (0x), octal (0o) and binary (0b) notation.
func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseIDs(list []string) ([]byte, error) {
	ids := make([]byte, 0, len(list))
	for _, s := range list {
		id, err := parseByte(s)
		if err != nil {
			return nil, fmt.Errorf("bad segment identifier %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
