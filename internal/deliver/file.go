package deliver

import (
	"fmt"
	"os"
	"path/filepath"

	"newsbrief/internal/brief"
	"newsbrief/internal/render"
)

// fileDateLayout names the saved brief by its generation day.
const fileDateLayout = "20060102"

// WriteFile renders b as plain text into <dir>/news_brief_<YYYYMMDD>.txt,
// creating dir when absent, and returns the written path.
func WriteFile(b brief.Brief, dir, dateLayout string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &DeliveryError{Sink: "file", Err: fmt.Errorf("failed to create output directory: %w", err)}
		}
	}

	name := fmt.Sprintf("news_brief_%s.txt", b.GeneratedAt.Format(fileDateLayout))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(render.Text(b, dateLayout)), 0o644); err != nil {
		return "", &DeliveryError{Sink: "file", Err: fmt.Errorf("failed to write brief: %w", err)}
	}
	return path, nil
}
