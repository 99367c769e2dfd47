package internal

// Version is the hindiname release reported by --version.
const Version = "0.4.1"
