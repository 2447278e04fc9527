package parameter

// Chain physics, world units are pixels and time is seconds
const (
	// GravityFloat is downward acceleration applied to free links (units/sec²)
	GravityFloat = 980.0

	// ChainDampingFloat is exponential velocity damping rate per second
	ChainDampingFloat = 2.5

	// ChainSolverIterations is stretch constraint passes per Advance
	ChainSolverIterations = 8

	// ChainStretchStiffnessFloat is 1 for inextensible links
	ChainStretchStiffnessFloat = 1.0

	// ChainLinkMassFloat is mass of a single free link
	ChainLinkMassFloat = 1.0

	// ChainThickness is per-link collision thickness for ropes and bridge chains
	ChainThickness = 6.0
)
