// Package app contains the application services: the trial runner and the
// cross-validation orchestrator.
package app

import "fmt"

// Scenario names one differential-testing scenario.
type Scenario string

const (
	ScenarioAllNo      Scenario = "allno"
	ScenarioAbsent     Scenario = "absent"
	ScenarioAllYes     Scenario = "allyes"
	ScenarioIntrospect Scenario = "introspect"
	ScenarioReplay     Scenario = "replay"
)

// AllScenarios lists every scenario in execution order. Replay runs last
// because the (architecture x defconfig) cross product dominates the run
// time.
var AllScenarios = []Scenario{
	ScenarioAllNo,
	ScenarioAbsent,
	ScenarioAllYes,
	ScenarioIntrospect,
	ScenarioReplay,
}

// Descriptions maps each scenario to the text printed before it runs.
var Descriptions = map[Scenario]string{
	ScenarioAllNo:      "Test if the all-no resolver generates the same snapshot as the reference allnoconfig, for all architectures",
	ScenarioAbsent:     "Test if resolution without any prior snapshot matches the reference alldefconfig, for all architectures",
	ScenarioAllYes:     "Test if the all-yes resolver generates the same snapshot as the reference allyesconfig, for all architectures",
	ScenarioIntrospect: "Call every engine accessor and probe expression evaluation, for all architectures, to make sure the engine never crashes or misreports",
	ScenarioReplay:     "Test if replaying every known defconfig matches the reference, for every architecture/defconfig pair including nonsensical ones",
}

// ParseScenario validates a scenario name.
func ParseScenario(name string) (Scenario, error) {
	s := Scenario(name)
	if _, ok := Descriptions[s]; !ok {
		return "", fmt.Errorf("unknown scenario %q", name)
	}
	return s, nil
}

// Comparing reports whether the scenario ends in a snapshot comparison.
// The introspection pass is a pure engine diagnostic.
func (s Scenario) Comparing() bool {
	return s != ScenarioIntrospect
}
