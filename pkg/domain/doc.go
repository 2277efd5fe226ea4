/*
Package domain contains the core domain models shared by the deckcal packages.

It defines the geometry primitives used to place modules and labware on the
deck, the API level that selects definition formats, the error taxonomy and
the lifecycle events emitted by calibration sessions. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Point: A 3-D coordinate in deck space (millimetres).
  - Location: A point paired with the placeable that owns it.
  - Placeable / Labware: Things that occupy deck space and report a highest Z.
  - APIVersion: The protocol api level controlling definition generations.
*/
package domain
