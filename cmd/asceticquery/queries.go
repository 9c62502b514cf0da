package main

import (
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/query"
)

type fetchOptions struct {
	Params []string
	Page   int
	Size   int
	Hints  map[string]string
}

func (o *fetchOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.Params, "param", "p", nil, "named parameter as name=value or name:type=value")
	cmd.Flags().IntVar(&o.Page, "page", 0, "1-based page number")
	cmd.Flags().IntVar(&o.Size, "size", 20, "page size used with --page")
	cmd.Flags().StringToStringVar(&o.Hints, "hint", nil, "query hints as name=value")
}

func (o *fetchOptions) fetch(q query.Query) ([]any, error) {
	if err := bindParams(q, o.Params); err != nil {
		return nil, err
	}
	for name, value := range o.Hints {
		q.SetHint(name, value)
	}
	if o.Page > 0 {
		return q.ResultPage(o.Page, o.Size)
	}
	return q.ResultList()
}

func newNativeCommand(opts *rootOptions) *cobra.Command {
	fetch := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "native <sql>",
		Short: "Run SQL as written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, opts, func(f *query.Factory) error {
				rows, err := fetch.fetch(f.NewNative(args[0]))
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), opts.Format, rows)
			})
		},
	}
	fetch.register(cmd)
	return cmd
}

func newTextCommand(opts *rootOptions) *cobra.Command {
	fetch := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "text <query>",
		Short: "Run a query written with entity names from --schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, opts, func(f *query.Factory) error {
				rows, err := fetch.fetch(f.NewText(args[0]))
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), opts.Format, rows)
			})
		},
	}
	fetch.register(cmd)
	return cmd
}

func newExecCommand(opts *rootOptions) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a statement and print the number of affected rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, opts, func(f *query.Factory) error {
				q := f.NewNative(args[0])
				if err := bindParams(q, params); err != nil {
					return err
				}
				affected, err := q.ExecuteUpdate()
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), opts.Format, map[string]int64{"affected": affected})
			})
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter as name=value or name:type=value")
	return cmd
}

func newScalarCommand(opts *rootOptions) *cobra.Command {
	var params []string
	var typeName string
	cmd := &cobra.Command{
		Use:   "scalar <sql>",
		Short: "Run a single-value query and coerce the value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := lookupType(typeName)
			if err != nil {
				return err
			}
			return withFactory(cmd, opts, func(f *query.Factory) error {
				q := f.NewNative(args[0])
				if err := bindParams(q, params); err != nil {
					return err
				}
				value, err := q.Scalar(target)
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), opts.Format, value)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter as name=value or name:type=value")
	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "result type (string|int|float|decimal|time|date|uuid|ulid)")
	return cmd
}
