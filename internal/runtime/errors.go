package runtime

import (
	"fmt"
	"strings"
)

// FlowValidationError lists the structural problems found while building a flow.
type FlowValidationError struct {
	Flow     string
	Problems []string
}

func (e *FlowValidationError) Error() string {
	return fmt.Sprintf("flow '%s' is invalid: %s", e.Flow, strings.Join(e.Problems, "; "))
}

type problems struct {
	flow string
	list []string
}

func (p *problems) addf(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) err() error {
	if len(p.list) == 0 {
		return nil
	}
	return &FlowValidationError{Flow: p.flow, Problems: p.list}
}
