package main

import (
	"fmt"
	"io"
	"os"

	"sigscope/internal/errs"
	sigmodel "sigscope/internal/model/signature"
	"sigscope/internal/service/signature"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newResolveCmd prints one signature per input; each file holds the source of a single callable
func newResolveCmd(c *cli) *cobra.Command {
	var name, override string

	cmd := &cobra.Command{
		Use:   "resolve [file|-]...",
		Short: "Print the signature of the callable in each file (- or no args reads stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := signature.NewService(c.cfg.Signature, c.logger)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"-"}
			}

			for _, path := range args {
				source, err := readSource(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}

				fn := &sigmodel.Function{FuncName: name, Text: source}
				if cmd.Flags().Changed("override") {
					fn.Override = &override
				}
				c.logger.Debug("Resolving signature", zap.String("path", path))
				fmt.Fprintln(cmd.OutOrStdout(), svc.Resolver.Resolve(fn))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Runtime name used when the source declares none")
	cmd.Flags().StringVar(&override, "override", "", "Explicit signature returned instead of parsing")
	return cmd
}

func readSource(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.NewInvalidPathError(err.Error(), path)
	}
	return string(data), nil
}
