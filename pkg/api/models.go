package api

// Request kinds.
const (
	KindStop   = "Stop"
	KindBus    = "Bus"
	KindRoute  = "Route"
	KindNearby = "Nearby"
)

// NotFoundMessage is the error_message of a query that names an unknown stop
// or line, or asks for a route that does not exist.
const NotFoundMessage = "not found"

// Document is one batch: the network definition and the queries against it.
type Document struct {
	RoutingSettings *RoutingSettings `json:"routing_settings,omitempty" yaml:"routing_settings,omitempty" validate:"required"`
	BaseRequests    []BaseRequest    `json:"base_requests" yaml:"base_requests" validate:"dive"`
	StatRequests    []StatRequest    `json:"stat_requests,omitempty" yaml:"stat_requests,omitempty" validate:"dive"`
}

// RoutingSettings are the timing parameters: wait time in minutes and bus
// velocity in km/h.
type RoutingSettings struct {
	BusWaitTime int     `json:"bus_wait_time" yaml:"bus_wait_time" validate:"gte=0"`
	BusVelocity float64 `json:"bus_velocity" yaml:"bus_velocity" validate:"gt=0"`
}

// BaseRequest defines a stop or a bus line.
type BaseRequest struct {
	Type string `json:"type" yaml:"type" validate:"oneof=Stop Bus"`
	Name string `json:"name" yaml:"name" validate:"required"`

	// Stop fields.
	Latitude      *float64       `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	RoadDistances map[string]int `json:"road_distances,omitempty" yaml:"road_distances,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`

	// Bus fields.
	Stops       []string `json:"stops,omitempty" yaml:"stops,omitempty" validate:"omitempty,dive,required"`
	IsRoundtrip bool     `json:"is_roundtrip,omitempty" yaml:"is_roundtrip,omitempty"`
}

// StatRequest is one query. ID is echoed in the answer.
type StatRequest struct {
	ID   int    `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type" validate:"oneof=Stop Bus Route Nearby"`

	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Radius    float64  `json:"radius,omitempty" yaml:"radius,omitempty" validate:"gte=0"`
	Limit     int      `json:"limit,omitempty" yaml:"limit,omitempty" validate:"gte=0"`
}

// Answer is the response to one StatRequest.
type Answer interface {
	RequestID() int
}

// ErrorAnswer reports a query that could not be answered.
type ErrorAnswer struct {
	ID           int    `json:"request_id"`
	ErrorMessage string `json:"error_message"`
}

// StopAnswer lists the lines serving a stop.
type StopAnswer struct {
	ID    int      `json:"request_id"`
	Buses []string `json:"buses"`
}

// BusAnswer carries line statistics.
type BusAnswer struct {
	ID              int     `json:"request_id"`
	RouteLength     int     `json:"route_length"`
	Curvature       float64 `json:"curvature"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
}

// RouteAnswer is an itinerary.
type RouteAnswer struct {
	ID        int         `json:"request_id"`
	TotalTime float64     `json:"total_time"`
	Items     []RouteItem `json:"items"`
}

// RouteItem is a Wait or Bus leg of an itinerary.
type RouteItem struct {
	Type      string  `json:"type"`
	StopName  string  `json:"stop_name,omitempty"`
	Bus       string  `json:"bus,omitempty"`
	SpanCount int     `json:"span_count,omitempty"`
	Time      float64 `json:"time"`
}

// NearbyAnswer lists stops around a position, nearest first.
type NearbyAnswer struct {
	ID    int          `json:"request_id"`
	Stops []NearbyItem `json:"stops"`
}

// NearbyItem is a stop and its distance in meters.
type NearbyItem struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

func (a ErrorAnswer) RequestID() int  { return a.ID }
func (a StopAnswer) RequestID() int   { return a.ID }
func (a BusAnswer) RequestID() int    { return a.ID }
func (a RouteAnswer) RequestID() int  { return a.ID }
func (a NearbyAnswer) RequestID() int { return a.ID }
