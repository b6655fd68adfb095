package config

// Base application details
const AppName = "quill"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "quill.log"

// UI layout
const StatusBarHeight = 1

// Defaults for the editor section
const DefaultTabWidth = 4
const SystemClipboard = true
