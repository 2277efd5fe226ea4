/*
Package modules models active peripherals (magnetic, temperature and
thermocycler modules) as geometric objects on the deck.

It resolves user-facing load names to canonical models, loads and validates
the versioned definition artifacts for the api level in effect, and builds a
ModuleGeometry anchored at a parent Location. A ModuleGeometry answers where
labware sits on top of the module and how tall the module stack is, and
holds at most one attached labware.

	loader := modules.NewLoader(modules.WithLogger(logger))
	model, err := modules.ResolveModuleModel("Magnetic Module GEN2")
	if err != nil {
		return err
	}
	mod, err := loader.LoadModule(ctx, model, domain.Location{Labware: domain.Slot("1")}, apiLevel)
	if err != nil {
		return err
	}
	_, err = mod.AddLabware(plate)

Definition schema v1 is a flat bundle keyed by legacy load name; schema v2
documents are tagged "module/schemas/2" and are validated against the bundled
JSON schema before any geometry is built.
*/
package modules
