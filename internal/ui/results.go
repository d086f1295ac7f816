package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/repofleet/internal/fleet"
)

const (
	resultLineTemplateConstant    = "%s: %s\n"
	repositoryNameColorConstant   = "6"
	failureColorConstant          = "1"
	failureDetailFallbackConstant = "failed"
	unknownRepositoryNameConstant = "unknown"
	lineBreakConstant             = "\n"
)

// ResultRenderer writes one line block per repository result.
type ResultRenderer struct {
	writer        io.Writer
	nameStyle     lipgloss.Style
	failureStyle  lipgloss.Style
	includeSilent bool
}

// ResultRendererOption customizes a ResultRenderer.
type ResultRendererOption func(*ResultRenderer)

// WithSilentSuccesses also prints successful results that carry no detail.
func WithSilentSuccesses() ResultRendererOption {
	return func(renderer *ResultRenderer) {
		renderer.includeSilent = true
	}
}

// NewResultRenderer builds a renderer for the writer; colorEnabled forces the ANSI profile on or off.
func NewResultRenderer(writer io.Writer, colorEnabled bool, options ...ResultRendererOption) *ResultRenderer {
	styleRenderer := lipgloss.NewRenderer(writer)
	if colorEnabled {
		styleRenderer.SetColorProfile(termenv.ANSI)
	} else {
		styleRenderer.SetColorProfile(termenv.Ascii)
	}

	renderer := &ResultRenderer{
		writer:       writer,
		nameStyle:    styleRenderer.NewStyle().Foreground(lipgloss.Color(repositoryNameColorConstant)),
		failureStyle: styleRenderer.NewStyle().Foreground(lipgloss.Color(failureColorConstant)).TabWidth(lipgloss.NoTabConversion),
	}
	for _, option := range options {
		if option != nil {
			option(renderer)
		}
	}
	return renderer
}

// Render prints every result of the report in order. Successful results without
// detail stay silent unless WithSilentSuccesses was supplied.
func (renderer *ResultRenderer) Render(report fleet.RunReport) error {
	for _, result := range report.Results {
		renderedDetail, shouldRender := renderer.renderDetail(result)
		if !shouldRender {
			continue
		}
		repositoryName := result.RepositoryName
		if len(repositoryName) == 0 {
			repositoryName = unknownRepositoryNameConstant
		}
		if _, writeError := fmt.Fprintf(renderer.writer, resultLineTemplateConstant, renderer.nameStyle.Render(repositoryName), renderedDetail); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (renderer *ResultRenderer) renderDetail(result fleet.OperationResult) (string, bool) {
	trimmedDetail := strings.TrimRight(result.Detail, lineBreakConstant)
	switch result.Outcome {
	case fleet.OutcomeFailure:
		failureDetail := strings.TrimSpace(trimmedDetail)
		if len(failureDetail) == 0 && result.Failure != nil {
			failureDetail = result.Failure.Error()
		}
		if len(failureDetail) == 0 {
			failureDetail = failureDetailFallbackConstant
		}
		return renderLines(renderer.failureStyle, failureDetail), true
	case fleet.OutcomeSuccessWithChanges:
		return trimmedDetail, true
	default:
		if len(trimmedDetail) == 0 {
			return "", renderer.includeSilent
		}
		return trimmedDetail, true
	}
}

// renderLines styles each line on its own; lipgloss pads multi-line blocks to a common width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, lineBreakConstant)
	for lineIndex, line := range lines {
		lines[lineIndex] = style.Render(line)
	}
	return strings.Join(lines, lineBreakConstant)
}
