package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var vgCmd = &cobra.Command{
	Use:   "vg",
	Short: "Manage virtual graphs on a running admin server",
}

var (
	createType string
	createDeps []string
	createCfg  []string
)

var vgCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new virtual graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := map[string]any{}
		for _, kv := range createCfg {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --config entry %q, want key=value", kv)
			}
			cfg[k] = v
		}

		body := map[string]any{
			"name":         args[0],
			"type":         createType,
			"config":       cfg,
			"dependencies": createDeps,
		}
		return postJSON(cmd, "/vgs", body)
	},
}

var vgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered virtual graphs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON(cmd, "/vgs")
	},
}

var vgDropCmd = &cobra.Command{
	Use:   "drop <alias>",
	Short: "Drop a virtual graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteResource(cmd, "/vgs/"+args[0])
	},
}

var explainSchemaHint string

var vgExplainCmd = &cobra.Command{
	Use:   "explain <alias> <subject> <predicate> <object>...",
	Short: "Explain the plan for one or more triple patterns",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := args[0]
		rest := args[1:]
		if len(rest)%3 != 0 {
			return fmt.Errorf("patterns must come in subject/predicate/object triples")
		}

		var patterns []map[string]string
		for i := 0; i+2 < len(rest); i += 3 {
			patterns = append(patterns, map[string]string{
				"subject":   rest[i],
				"predicate": rest[i+1],
				"object":    rest[i+2],
			})
		}

		body := map[string]any{"patterns": patterns, "schemaHint": explainSchemaHint}
		return explain(cmd, "/vgs/"+alias+"/explain", body)
	},
}

func init() {
	vgCreateCmd.Flags().StringVar(&createType, "type", "", "VG type (fidx:Iceberg, fidx:R2RML, fidx:BM25)")
	vgCreateCmd.Flags().StringSliceVar(&createDeps, "dep", nil, "dependency ledger (repeatable)")
	vgCreateCmd.Flags().StringArrayVar(&createCfg, "config", nil, "config key=value (repeatable)")
	_ = vgCreateCmd.MarkFlagRequired("type")

	vgExplainCmd.Flags().StringVar(&explainSchemaHint, "schema-hint", "", "disambiguation hint for ambiguous class/predicate routing")

	vgCmd.AddCommand(vgCreateCmd, vgListCmd, vgDropCmd, vgExplainCmd)
	rootCmd.AddCommand(vgCmd)
}

func postJSON(cmd *cobra.Command, path string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverURL()+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printRawResponse(cmd, resp)
}

func getJSON(cmd *cobra.Command, path string) error {
	resp, err := http.Get(serverURL() + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printRawResponse(cmd, resp)
}

func deleteResource(cmd *cobra.Command, path string) error {
	req, err := http.NewRequest(http.MethodDelete, serverURL()+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return printRawResponse(cmd, resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "dropped")
	return nil
}

func printRawResponse(cmd *cobra.Command, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("server returned %s: %s", resp.Status, string(data))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return nil
}

type planGroup struct {
	Table    string   `json:"table"`
	Patterns int      `json:"patterns"`
	Pushdown []string `json:"pushdown"`
}

type planResponse struct {
	Groups            []planGroup `json:"groups"`
	Joins             []string    `json:"joins"`
	CartesianFallback bool        `json:"cartesianFallback"`
}

// explain renders the plan tree with color instead of dumping raw JSON,
// grouping by table and highlighting a cartesian fallback in red.
func explain(cmd *cobra.Command, path string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverURL()+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("server returned %s: %s", resp.Status, string(data))
	}

	var plan planResponse
	if err := json.Unmarshal(data, &plan); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	for _, g := range plan.Groups {
		bold.Fprintf(out, "%s", g.Table)
		fmt.Fprintf(out, "  (%d pattern(s))\n", g.Patterns)
		for _, p := range g.Pushdown {
			color.New(color.FgCyan).Fprintf(out, "    pushdown: %s\n", p)
		}
	}
	for _, j := range plan.Joins {
		color.New(color.FgGreen).Fprintf(out, "join: %s\n", j)
	}
	if plan.CartesianFallback {
		color.New(color.FgRed, color.Bold).Fprintln(out, "cartesian fallback engaged")
	}
	return nil
}
