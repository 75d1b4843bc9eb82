package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mholzen/treegrid/pkg/transform"
)

func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func printJSONToWriter(w io.Writer, response any) error {
	prettyJSON, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot format JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", prettyJSON)
	return err
}

func joinBuiltins() string {
	return strings.Join(transform.ListBuiltins(), ", ")
}
