// Package view renders the groupspin screen from plain state structs.
//
// Renderers are pure functions of their state and a *styles.ThemedStyles, so
// they can be tested without a running program and without a Controller.
package view
