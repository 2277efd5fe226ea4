/*
Package deckcal positions peripheral modules on a robot work deck and gates
multi-step pipette calibration through table-driven state machines.

# Concept

Two independent cores sit behind one facade:

  - Module geometry: a versioned module definition plus a parent location
    yields a ModuleGeometry that knows its labware offset, its stacked
    height and the single labware resting on it. Thermocyclers add a lid
    that blocks placement while closed.
  - Calibration workflows: each workflow is a declarative transition table
    with an "any state" row. A session advances only through commands the
    table allows; anything else is rejected and leaves the session as it was.

Sessions persist through a ports.SessionStore (memory, file or Redis), may
record every command in a ports.Journal (memory or SQLite) and report
lifecycle events through domain.LifecycleHooks.

# Usage

	deck := deckcal.New()

	slot := domain.Location{Point: domain.Point{X: 265, Y: 90.5}, Labware: domain.Slot("3")}
	mod, err := deck.LoadModule(ctx, "magnetic module gen2", slot)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(mod, mod.HighestZ())

	s, err := deck.StartSession(ctx, calibration.WorkflowPipetteOffset)
	if err != nil {
		log.Fatal(err)
	}
	s, err = deck.Send(ctx, s.ID, "load_labware")

# Packages

  - pkg/modules: name resolution, definition loading, geometry.
  - pkg/fsm: the generic table-driven state machine.
  - pkg/calibration: the two pipette-offset workflows.
  - pkg/session: concurrency-safe session orchestration.
  - pkg/adapters: store, locker and journal backends.
  - pkg/persistence/middleware: session store decorators (encryption).
  - pkg/observability: Prometheus metrics from lifecycle hooks.
*/
package deckcal
