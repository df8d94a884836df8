package types

// Version is the crozier release version.
const Version = "0.3.0"
