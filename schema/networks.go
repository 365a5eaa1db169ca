package schema

// Network represents a named grouping of routes from networks.txt, used by
// Fares v2 leg rules to key fares by network rather than by individual route.
type Network struct {
	NetworkID   string `csv:"network_id"`
	NetworkName string `csv:"network_name"`
}

// RouteNetwork represents a route's membership in a network, from
// route_networks.txt.
type RouteNetwork struct {
	NetworkID string `csv:"network_id"`
	RouteID   string `csv:"route_id"`
}
