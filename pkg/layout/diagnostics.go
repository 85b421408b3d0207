package layout

import (
	"fmt"

	"github.com/flowmap/flowmap/pkg/errors"
)

// Severity classifies how much a diagnostic compromised the layout.
type Severity int

const (
	// SeverityWarning marks a fault the engine recovered from without
	// changing the structure of the result (e.g. a dropped dangling edge).
	SeverityWarning Severity = iota
	// SeverityError marks a data-integrity fault in the input graph that
	// forced a structural fallback (e.g. a containment cycle). The layout is
	// still usable but the upstream model should be fixed.
	SeverityError
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a structured fault report attached to a layout result.
// The engine never fails a run over bad graph data: it repairs what it can,
// records a diagnostic, and keeps going so the renderer always has geometry.
type Diagnostic struct {
	Code     errors.Code `json:"code"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
	NodeID   string      `json:"node_id,omitempty"`
	EdgeID   string      `json:"edge_id,omitempty"`
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	subject := d.NodeID
	if subject == "" {
		subject = d.EdgeID
	}
	if subject == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, subject, d.Message)
}

func warnf(code errors.Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

func errf(code errors.Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}
