// Package ui is the operator-facing terminal interface of the bridge,
// built on Bubble Tea.
//
// Core abstractions:
//   - View: a screen or major UI region with its own model, update, view (Elm-style)
//   - Overlay: modal sheet views with a dismiss key, stacked over the active View
//   - KeybindRegistry: spacemacs-style SPC-leader key sequences with per-mode hints
//   - FocusManager: tracks and rotates focus across form fields
//
// AppModel composes the four screens (monitor, devices, settings, sessions)
// and owns the recording lifecycle; views render state and emit messages,
// handlers in app_handlers_*.go mutate it.
package ui
