package canopy

// Version is the semantic version of the canopy module.
var Version = "0.3.0"
