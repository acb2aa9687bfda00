package diag

import "github.com/cla7aye15I4nd/TypePython/internal/source"

func New(sev Severity, code Code, module string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Module:   module,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
	}
}

func NewError(code Code, module string, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, module, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Location renders "module:line:col" (or just the module when the span is zero).
func (d Diagnostic) Location() string {
	if d.Primary.IsZero() {
		return d.Module
	}
	if d.Module == "" {
		return d.Primary.String()
	}
	return d.Module + ":" + d.Primary.String()
}
