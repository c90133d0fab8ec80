// Package display provides sinks for the screen updates of the virtual machine.
package display
