package gantt

import (
	"fmt"

	"github.com/vanderheijden86/sitework/pkg/model"
)

// describe renders the one-sentence label for a connector. Descriptions are
// what screen readers announce and what the tooltip shows, so they must
// never fail: a missing work-item title falls back to the raw id, a missing
// milestone name to "Milestone <id>".
func describe(c *Connector, in Inputs) string {
	from := refLabel(c.FromRef, in)
	to := refLabel(c.ToRef, in)

	switch c.Role {
	case RoleExplicit:
		switch c.Type {
		case model.StartToStart:
			return fmt.Sprintf("%s and %s must start together", from, to)
		case model.FinishToFinish:
			return fmt.Sprintf("%s and %s must finish together", from, to)
		case model.StartToFinish:
			return fmt.Sprintf("%s cannot finish until %s starts", to, from)
		default: // finish_to_start
			return fmt.Sprintf("%s must finish before %s can start", from, to)
		}
	case RoleImplicitCritical:
		return fmt.Sprintf("%s and %s are consecutive on the critical path", from, to)
	case RoleMilestoneContribution:
		return fmt.Sprintf("%s contributes to milestone %s", from, to)
	case RoleMilestoneRequirement:
		return fmt.Sprintf("%s is a required milestone for %s", from, to)
	}
	return fmt.Sprintf("%s is linked to %s", from, to)
}

func refLabel(r Ref, in Inputs) string {
	if r.Kind == RefMilestone {
		if name, ok := in.MilestoneNames[r.Milestone]; ok && name != "" {
			return name
		}
		return fmt.Sprintf("Milestone %d", r.Milestone)
	}
	if title, ok := in.Titles[r.WorkItem]; ok && title != "" {
		return title
	}
	return r.WorkItem
}
