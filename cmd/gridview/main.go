package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/clarktrimble/sabot"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"datagrid"
	"datagrid/browse"
	nt "datagrid/entity"
	"datagrid/render"
	"datagrid/store/duck"
	"datagrid/util"
)

var (
	cfgPath  string
	logPath  string
	rowsPath string
)

var rootCmd = &cobra.Command{
	Use:           "gridview",
	Short:         "Filter, sort and group tabular records",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "gridview.yaml", "grid config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "append structured logs to this file")
	rootCmd.PersistentFlags().StringVarP(&rowsPath, "rows", "r", "", "row file, overriding the config")

	rootCmd.AddCommand(queryCmd(), browseCmd(), sampleCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func queryCmd() *cobra.Command {

	var (
		quick   []string
		sorts   []string
		groupBy string
		save    string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the evaluated grid",
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ctx := cmd.Context()
			lgr, closeLog := logger()
			defer closeLog()

			cfg, grd, src, err := setup(ctx, lgr)
			if err != nil {
				return
			}
			defer src.close()

			err = adjust(grd, quick, sorts, groupBy)
			if err != nil {
				return
			}

			result, err := grd.Query(ctx, src)
			if err != nil {
				return
			}

			snap := grd.Snapshot()
			fmt.Println(render.Table(grd.Registry(), snap.Query.Sorts.Keys(), render.Lines(result), render.NoCursor))
			fmt.Printf("%d of %d rows from %s\n", len(result.Rows), result.Total, src.Name())

			if save == "" {
				return
			}

			cfg.View = grd.View()
			err = util.WriteConfig(cfg, save, 0644)
			return
		},
	}

	cmd.Flags().StringArrayVarP(&quick, "quick", "q", nil, "quick filter as column=value")
	cmd.Flags().StringArrayVarP(&sorts, "sort", "s", nil, "sort key as column or column:desc, highest priority first")
	cmd.Flags().StringVarP(&groupBy, "group-by", "g", "", "group rows by column")
	cmd.Flags().StringVar(&save, "save", "", "write the config with the resulting view to this file")

	return cmd
}

func browseCmd() *cobra.Command {

	return &cobra.Command{
		Use:   "browse",
		Short: "Open the grid in the terminal",
		Long:  "Open the grid in the terminal.\n\n" + browse.Help,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ctx := cmd.Context()
			lgr, closeLog := logger()
			defer closeLog()

			_, grd, src, err := setup(ctx, lgr)
			if err != nil {
				return
			}
			defer src.close()

			_, err = tea.NewProgram(browse.New(ctx, grd, src, lgr)).Run()
			err = errors.Wrapf(err, "failed to run browser")
			return
		},
	}
}

func sampleCmd() *cobra.Command {

	return &cobra.Command{
		Use:   "sample",
		Short: "Write a sample config and rows file unless present",
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			err = util.SampleConfig([]byte(sampleConfig), cfgPath, 0644)
			if err != nil {
				return
			}

			rows := filepath.Join(filepath.Dir(cfgPath), "customers.yaml")
			err = util.SampleConfig([]byte(sampleRows), rows, 0644)
			if err != nil {
				return
			}

			fmt.Printf("try: gridview query -c %s -s status -s name:desc\n", cfgPath)
			return
		},
	}
}

// unexported

// source is a row source that may hold resources.
type source struct {
	datagrid.Source
	close func()
}

func logger() (lgr nt.Logger, closeLog func()) {

	file := util.OpenLog(logPath, 0644)
	lgr = &sabot.Sabot{Writer: file}

	closeLog = func() {
		util.CloseLog(file)
	}
	return
}

func setup(ctx context.Context, lgr nt.Logger) (cfg *datagrid.Config, grd *datagrid.Grid, src source, err error) {

	cfg = &datagrid.Config{}
	err = util.LoadConfig(cfg, cfgPath)
	if err != nil {
		return
	}

	grd, err = cfg.New(ctx, lgr)
	if err != nil {
		return
	}

	path := rowsPath
	if path == "" {
		if cfg.Rows == "" {
			err = errors.Errorf("no rows in %s and no --rows given", cfgPath)
			return
		}
		path = cfg.Rows
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(cfgPath), path)
		}
	}

	src, err = openSource(ctx, path, lgr)
	if err != nil {
		return
	}

	lgr.Info(ctx, "grid ready", "config", cfgPath, "rows", path, "columns", len(grd.Registry().Columns()))
	return
}

// openSource reads yaml rows directly and hands anything else to duckdb.
func openSource(ctx context.Context, path string, lgr nt.Logger) (src source, err error) {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var file *datagrid.FileSource
		file, err = datagrid.LoadFile(path)
		if err != nil {
			return
		}
		src = source{Source: file, close: func() {}}
		return
	}

	dk, err := duck.New(lgr)
	if err != nil {
		return
	}

	err = dk.Load(ctx, path)
	if err != nil {
		dk.Close()
		return
	}

	src = source{Source: dk, close: dk.Close}
	return
}

// adjust applies command line quick filters, sorts and group-by over the configured view.
func adjust(grd *datagrid.Grid, quick, sorts []string, groupBy string) (err error) {

	for _, qf := range quick {
		col, val, ok := strings.Cut(qf, "=")
		if !ok {
			return errors.Errorf("quick filter %q is not column=value", qf)
		}
		err = grd.SetQuick(col, val)
		if err != nil {
			return
		}
	}

	keys := make([]nt.SortKey, 0, len(sorts))
	for _, key := range sorts {
		var sk nt.SortKey
		sk.Column, sk.Desc, err = parseSort(key)
		if err != nil {
			return
		}
		keys = append(keys, sk)
	}

	if len(keys) > 0 {
		err = grd.ClearSort()
		if err != nil {
			return
		}
	}

	for _, sk := range keys {
		err = grd.SetSort(sk.Column, sk.Desc)
		if err != nil {
			return
		}
	}

	if groupBy != "" {
		err = grd.SetGroupBy(groupBy)
	}
	return
}

// parseSort splits column[:asc|desc].
func parseSort(key string) (col string, desc bool, err error) {

	col, dir, _ := strings.Cut(key, ":")
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		err = errors.Errorf("unknown sort direction %q in %q, want asc or desc", dir, key)
	}
	return
}
