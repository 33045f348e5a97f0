// Package request contains the ServiceRequest aggregate and its value
// objects: lifecycle Status, Urgency, and the customer Address snapshot.
//
// A ServiceRequest is created in Pending status with no provider, gets
// assigned to exactly one provider on acceptance, and ends in Completed or
// Cancelled. The aggregate enforces that a provider id is present exactly
// when the status requires one, so no code path can observe an accepted
// request without a provider or a pending request with one.
package request
