package notional

// Version is the notional release version.
const Version = "0.1.0"
