// Package commands defines the image-intake CLI.
//
// Commands
//
//   - gui          Open the intake window (default asset, photo library, camera)
//   - normalize    Rotate photos upright and fit them into the bounding box
//   - config init  Write the default configuration file
//   - config show  Print the effective configuration
//   - version      Print the library version
//
// The root command loads the configuration file and builds the logger
// before any subcommand runs. --debug switches to debug logging and lets
// work-unit faults crash the window instead of showing an alert.
package commands
