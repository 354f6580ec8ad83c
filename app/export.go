package app

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportProfiles writes every profile. JSON output uses the flat export mapping,
// legacy aliases included; YAML output is the typed profile list.
func ExportProfiles(w io.Writer, store *profile.Store, format string) error {
	profiles := store.List()

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"profiles": profiles}); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		out := make([]map[string]any, 0, len(profiles))
		for _, p := range profiles {
			m, err := profile.ExportProfile(p)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		body, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(body))
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ExportProfilesToFile writes the export to path and reports a failed close.
func ExportProfilesToFile(path string, store *profile.Store, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := ExportProfiles(f, store, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
