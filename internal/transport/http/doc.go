// Package http implements the dashboard's HTTP handlers. Handlers stay thin:
// they decode and validate a DashboardRequest, call the service and render the
// result as JSON, or as an RFC 7807 problem when something fails.
//
// Routes under /api/dashboard:
//
//	GET  /options    sidebar choices and slider defaults
//	POST /filter     filtered rows
//	POST /kpis       headline numbers
//	POST /ranking    top-N lists, scatter and quadrants
//	POST /sector     sector, province and cleantech cross-tabs
//	POST /timeline   start years, cost histogram, cost by sector
//	POST /map        GeoJSON layer
//	POST /flow       status transition graph
//	POST /export     filtered_projects.csv
//
// Every POST body is optional; an empty body means no filter and default
// view parameters.
package http
