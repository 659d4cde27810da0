package api

import (
	"net/url"
	"strings"
)

// Endpoint names, relative to the base URL.
const (
	pathCreateUser   = "create-user"
	pathLogin        = "login"
	pathLogout       = "logout"
	pathUserSettings = "user-settings"
	pathCreateGame   = "create-game"
	pathGameSettings = "game-settings"
	pathJoin         = "join"
	pathLeave        = "leave"
	pathStart        = "start"
	pathShuffle      = "shuffle"
	pathStatus       = "status"
	pathKill         = "kill"
	pathUser         = "user"
	pathGame         = "game"
)

// withQuery appends a single escaped query parameter to endpoint.
func withQuery(endpoint, key, value string) string {
	return endpoint + "?" + url.Values{key: []string{value}}.Encode()
}

func gamePath(endpoint, gameID string) string {
	return withQuery(endpoint, "game", gameID)
}

// endpointName strips the query so identifiers stay out of logs.
func endpointName(path string) string {
	name, _, _ := strings.Cut(path, "?")
	return name
}
