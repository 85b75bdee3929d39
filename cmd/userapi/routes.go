package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/userapi"
	fiberadapter "github.com/lborres/userapi/adapters/fiber"
	"github.com/lborres/userapi/services"
)

const opVersion = "version"

// versionRoute reports the build version beside the user endpoints
func versionRoute() fiberadapter.Route {
	return fiberadapter.Route{
		Endpoint: userapi.Endpoint{
			Path:   "/version",
			Method: http.MethodGet,
			Metadata: userapi.EndpointMetadata{
				OperationID: opVersion,
				Description: "Report the build version",
				Responses: map[int]interface{}{
					http.StatusOK: map[string]string{"version": ""},
				},
			},
		},
		Handler: func(c fiber.Ctx) error {
			return c.JSON(map[string]string{"version": Version})
		},
	}
}

// extraRoutes are mounted by serve and listed by the routes command
func extraRoutes() []fiberadapter.Route {
	return []fiberadapter.Route{versionRoute()}
}

// registeredEndpoints returns the user endpoints followed by extraRoutes
func registeredEndpoints() ([]*userapi.Endpoint, error) {
	registry := services.NewEndpointRegistry()

	routes := extraRoutes()
	extra := make([]userapi.Endpoint, 0, len(routes))
	for _, r := range routes {
		extra = append(extra, r.Endpoint)
	}
	if err := registry.RegisterPlugin(extra); err != nil {
		return nil, err
	}
	return registry.Endpoints(), nil
}

// printRoutes writes one row per endpoint with its request body model and
// documented status codes.
func printRoutes(w io.Writer, basePath string, endpoints []*userapi.Endpoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tOPERATION\tBODY\tSTATUS\tDESCRIPTION")

	for _, ep := range endpoints {
		body := "-"
		if ep.Metadata.RequestBody != nil {
			body = fmt.Sprintf("%T", ep.Metadata.RequestBody)
		}

		codes := make([]int, 0, len(ep.Metadata.Responses))
		for code := range ep.Metadata.Responses {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		statuses := make([]string, 0, len(codes))
		for _, code := range codes {
			statuses = append(statuses, strconv.Itoa(code))
		}
		status := strings.Join(statuses, ",")
		if status == "" {
			status = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ep.Method, basePath+ep.Path, ep.Metadata.OperationID, body, status, ep.Metadata.Description)
	}

	return tw.Flush()
}
