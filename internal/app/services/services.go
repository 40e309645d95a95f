package services

// Services defined in this package:
// - PlannerService: Builds, validates and optimizes course sequence plans
//
// Each service receives its repository dependencies through small consumer
// interfaces so tests can substitute in-memory catalogs.
