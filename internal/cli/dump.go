package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/acp/pkg/types"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newDumpCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a package summary as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("%w: unsupported format %q (want json or yaml)", types.ErrMalformedDocument, format)
			}

			p, err := a.openInput(cmd.Context())
			if err != nil {
				return err
			}
			s := summarize(a.flags.input, p)
			if err := p.Close(); err != nil {
				return err
			}

			var out []byte
			if format == formatYAML {
				out, err = yaml.Marshal(s)
			} else {
				out, err = json.MarshalIndent(s, "", "  ")
				out = append(out, '\n')
			}
			if err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}
