package backend

// Endpoint path templates. Placeholders are filled with gateway.Expand.
const (
	EndpointLogin = "/auth/login"

	EndpointPlayers = "/users"
	EndpointPlayer  = "/users/:id"

	EndpointMatches = "/matches"
	EndpointMatch   = "/matches/:id"

	EndpointRound = "/matches/:matchId/rounds/:roundId/users/:userId"

	EndpointLocations = "/locations"
)
