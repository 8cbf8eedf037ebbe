// Package routes holds the console's fixed navigation targets.
package routes

import "fmt"

const (
	// Login is the unauthenticated entry point
	Login = "/login"
	// Dashboard is the default landing route after login
	Dashboard = "/dashboard"
	Players   = "/players"
	Matches   = "/matches"
)

// Match returns the route of a single match
func Match(id int) string {
	return fmt.Sprintf("%s/%d", Matches, id)
}
