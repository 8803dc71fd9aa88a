package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"assetcarver/internal/classify"
	"assetcarver/internal/fileutil"
	"assetcarver/internal/signature"
)

const readmeName = "README.txt"

var titleCase = cases.Title(language.English)

// renderReadme describes the output layout of a run.
func renderReadme(policy classify.Policy, kinds []signature.Kind, at time.Time) string {
	var b strings.Builder
	b.WriteString("Roblox Asset Extraction\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Classification method: %s\n\n", titleCase.String("by "+policy.String()))
	b.WriteString("Categories:\n\n")
	for i, category := range policy.Categories() {
		fmt.Fprintf(&b, "%d. %-24s - %s\n", i+1, category, classify.Describe(category))
	}
	b.WriteString("\n")
	if policy == classify.ByDuration {
		b.WriteString("Note: duration classification requires ffprobe. Non-audio assets are grouped by type.\n\n")
	}
	fmt.Fprintf(&b, "Extraction time: %s\n\n", at.Format("2006-01-02 15:04:05"))
	b.WriteString("Extracted asset types:\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "- %s (%s)\n", titleCase.String(string(k.Group())), strings.ToUpper(k.String()))
	}
	return b.String()
}

func (e *Engine) writeReadme(outputDir string) error {
	content := renderReadme(e.classifier.Policy(), e.kinds, e.now())
	if err := fileutil.WriteFileAtomic(filepath.Join(outputDir, readmeName), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}
	return nil
}
