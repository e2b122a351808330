package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
)

// modeStages maps each mode to the stage that answers it.
var modeStages = []struct {
	Mode  domain.Mode
	Stage domain.Stage
}{
	{domain.ModeProfileDayPlans, domain.StageProfileDayPlans},
	{domain.ModeStartMyDay, domain.StageStartMyDay},
	{domain.ModeGeneral, domain.StageGeneralTravel},
}

// Overlay highlights the path a single turn takes.
type Overlay struct {
	Mode domain.Mode
}

// GenerateMermaid renders the chat pipeline as a Mermaid flowchart:
// START → route_context → one mode stage → provide_suggestions → END.
// With an overlay, the stages of that mode's path are styled as visited.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString("    start((\"START\"))\n")
	fmt.Fprintf(&sb, "    %s[/\"%s\"/]\n", domain.StageRouteContext, domain.StageRouteContext)
	for _, ms := range modeStages {
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", ms.Stage, ms.Stage)
	}
	fmt.Fprintf(&sb, "    %s[\"%s\"]\n", domain.StageProvideSuggestions, domain.StageProvideSuggestions)
	sb.WriteString("    finish((\"END\"))\n")

	fmt.Fprintf(&sb, "    start --> %s\n", domain.StageRouteContext)
	for _, ms := range modeStages {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", domain.StageRouteContext, ms.Mode, ms.Stage)
		fmt.Fprintf(&sb, "    %s --> %s\n", ms.Stage, domain.StageProvideSuggestions)
	}
	fmt.Fprintf(&sb, "    %s --> finish\n", domain.StageProvideSuggestions)

	if overlay != nil {
		sb.WriteString("\n    classDef visited fill:#e0e7ff,stroke:#6366f1,stroke-width:2px;\n")
		sb.WriteString("    classDef current fill:#fae8ff,stroke:#c026d3,stroke-width:3px;\n")

		mode := domain.ParseMode(string(overlay.Mode))
		for _, ms := range modeStages {
			if ms.Mode == mode {
				fmt.Fprintf(&sb, "    class start,%s,%s,finish visited\n", domain.StageRouteContext, domain.StageProvideSuggestions)
				fmt.Fprintf(&sb, "    class %s current\n", ms.Stage)
			}
		}
	}

	return sb.String()
}
