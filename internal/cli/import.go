package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rcliao/daybook/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a diary from JSON",
		Long:  "Import entries, goals and check-ins from JSON on stdin. Expects the format produced by export.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var data store.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Import(cmd.Context(), &data)
	if err != nil {
		exitErr("import", err)
	}
	printJSON(map[string]any{"ok": true, "imported": res})
}
