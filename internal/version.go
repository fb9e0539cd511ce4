package internal

// Version is the current pinyinify release.
const Version = "0.3.0"
