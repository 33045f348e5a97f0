// Package jobcard contains the JobCard aggregate: the operational
// assignment record that links a matched provider to a service request.
//
// JobCard status is tracked independently of the service request's status.
// The two records are written by different actors at different times, so
// reconciliation happens in the synchronizer rather than inside either
// aggregate.
package jobcard
