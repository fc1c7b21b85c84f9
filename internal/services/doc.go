// Package services defines the [Source] interface for Azure DevOps organizations and implements it over the REST API.
//
// # Source Interface
//
// All project artifact reads go through a common abstraction, so extraction
// tasks work uniformly against any configured organization.
//
// # Azure DevOps Implementation
//
// [AzureDevOpsService] authenticates with a personal access token presented
// as a bearer credential via [oauth2.StaticTokenSource]. Every collection
// endpoint returns the standard count/value envelope, decoded through the
// generic listResponse type.
//
// Work items use a two-step read: a WIQL query returns matching ids, then the
// batch detail endpoint hydrates fields in id-ascending groups of at most 200.
//
// Some artifact reads aggregate nested collections:
//   - board columns walk teams, then boards, then columns
//   - test suites walk plans, then suites
//   - pipeline runs walk pipelines, then runs
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrUpstreamAuth] : credential rejected (401/403)
//   - [shared.ErrUpstreamTimeout] : request deadline exceeded
//   - [shared.ErrUpstreamRequest] : any other non-2xx response
//   - [shared.ErrMalformedResponse] : response body failed to decode
//   - [shared.ErrConnectionFailed] : transport-level failure
package services
