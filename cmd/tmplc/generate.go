package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caseywise/tmplc/config"
	"github.com/caseywise/tmplc/driver"
)

func newGenerateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "generate [packages...]",
		Short: "compile every annotated record into a sibling _tmplc.go file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return runGenerate(args, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compile without writing any files")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "compile every annotated record without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return runGenerate(args, true)
		},
	}
}

func runGenerate(patterns []string, dryRun bool) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	var specs []*specWithDir
	for _, pattern := range patterns {
		found, err := discoverRecords(pattern)
		if err != nil {
			return errors.Wrapf(err, "discovering records in %s", pattern)
		}
		specs = append(specs, found...)
	}
	logger.Info("records discovered", zap.Int("count", len(specs)))

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan *specWithDir)
	errs := make(chan error, len(specs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if err := compileOne(cfg, item, dryRun); err != nil {
					errs <- err
				}
			}
		}()
	}
	for _, item := range specs {
		jobs <- item
	}
	close(jobs)
	wg.Wait()
	close(errs)

	var failed []error
	for err := range errs {
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		for _, err := range failed {
			logger.Error("compile failed", zap.Error(err))
		}
		return errors.Errorf("%d record(s) failed to compile", len(failed))
	}
	return nil
}

func compileOne(cfg *config.Config, item *specWithDir, dryRun bool) error {
	f, err := driver.Compile(item.spec, cfg, logger)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	dir := item.dir
	if dir == "" {
		dir = "."
	}
	outPath := filepath.Join(dir, strings.ToLower(item.spec.Name)+"_tmplc.go")
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", outPath)
	}
	defer out.Close()

	if err := f.Render(out); err != nil {
		return errors.Wrapf(err, "rendering %s", outPath)
	}
	logger.Info("generated", zap.String("path", outPath))
	return nil
}
