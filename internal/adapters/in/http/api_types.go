package http

import "time"

// Error is the wire shape of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddressPayload is the customer address as submitted and echoed by the API.
// Coordinates are optional; a request without them must carry a pincode.
type AddressPayload struct {
	Line      string   `json:"line"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Pincode   string   `json:"pincode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// NewServiceRequest is the body of POST /api/v1/requests.
type NewServiceRequest struct {
	CustomerID    string         `json:"customerId"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Address       AddressPayload `json:"address"`
	ServiceType   string         `json:"serviceType"`
	Problem       string         `json:"problem"`
	Urgency       string         `json:"urgency"`
	ScheduledTime *time.Time     `json:"scheduledTime,omitempty"`
}

// RequestCreated is returned when a service request is accepted for dispatch.
type RequestCreated struct {
	RequestID string `json:"requestId"`
}

// CustomerSession reports the state of a customer's push session.
type CustomerSession struct {
	CustomerID string `json:"customerId"`
	Connected  bool   `json:"connected"`
}

// ProviderProfile is the provider contact block on a request once one is
// assigned.
type ProviderProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// ServiceRequest is the customer-facing read model of a request.
type ServiceRequest struct {
	ID            string           `json:"id"`
	CustomerID    string           `json:"customerId"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	Address       AddressPayload   `json:"address"`
	ServiceType   string           `json:"serviceType"`
	Problem       string           `json:"problem"`
	Urgency       string           `json:"urgency"`
	ScheduledTime *time.Time       `json:"scheduledTime,omitempty"`
	Status        string           `json:"status"`
	Provider      *ProviderProfile `json:"provider,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProviderPosition is a live provider location sample on the tracking stream.
type ProviderPosition struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Estimate is the straight-line distance and travel time to the customer.
type Estimate struct {
	Distance   string `json:"distance"`
	EtaMinutes int    `json:"etaMinutes"`
}

// TrackingUpdate is one frame on the SSE tracking stream.
type TrackingUpdate struct {
	Status   string            `json:"status"`
	Provider *ProviderProfile  `json:"provider,omitempty"`
	Position *ProviderPosition `json:"position,omitempty"`
	Estimate *Estimate         `json:"estimate,omitempty"`
}

// ReviewEligibility reports whether the customer may review a request.
type ReviewEligibility struct {
	Status    string `json:"status"`
	JobCardID string `json:"jobCardId,omitempty"`
}

// NewReview is the body of POST /api/v1/reviews.
type NewReview struct {
	JobCardID  string `json:"jobCardId"`
	CustomerID string `json:"customerId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
