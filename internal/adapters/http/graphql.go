package http

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	badgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Badge",
		Fields: graphql.Fields{
			"key":         &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"icon":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"user_id":              &graphql.Field{Type: graphql.String},
			"username":             &graphql.Field{Type: graphql.String},
			"bio":                  &graphql.Field{Type: graphql.String},
			"location":             &graphql.Field{Type: graphql.String},
			"buy_me_a_coffee_link": &graphql.Field{Type: graphql.String},
			"total_pins":           &graphql.Field{Type: graphql.Int},
			"total_distance":       &graphql.Field{Type: graphql.Float},
			"total_distance_miles": &graphql.Field{Type: graphql.Float},
			"total_routes":         &graphql.Field{Type: graphql.Int},
			"badges":               &graphql.Field{Type: graphql.NewList(badgeType)},
		},
	})

	entryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LeaderboardEntry",
		Fields: graphql.Fields{
			"rank":     &graphql.Field{Type: graphql.Int},
			"user_id":  &graphql.Field{Type: graphql.String},
			"username": &graphql.Field{Type: graphql.String},
			"score":    &graphql.Field{Type: graphql.Float},
			"display":  &graphql.Field{Type: graphql.String},
		},
	})

	pinType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Pin",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"title":     &graphql.Field{Type: graphql.String},
			"category":  &graphql.Field{Type: graphql.String},
			"image_url": &graphql.Field{Type: graphql.String},
			"lng":       &graphql.Field{Type: graphql.Float},
			"lat":       &graphql.Field{Type: graphql.Float},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CommunityRoute",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"user_id":         &graphql.Field{Type: graphql.String},
			"username":        &graphql.Field{Type: graphql.String},
			"timestamp":       &graphql.Field{Type: graphql.String},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"distance":        &graphql.Field{Type: graphql.Float, Description: "Meters from the query point (nearby search only)"},
			"route":           &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Float)), Description: "[lng, lat] pairs"},
			"pins":            &graphql.Field{Type: graphql.NewList(pinType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"badges": &graphql.Field{
				Type:        graphql.NewList(badgeType),
				Description: "The badge catalog",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.AllBadges(), nil
				},
			},
			"profile": &graphql.Field{
				Type:        profileType,
				Description: "A public profile",
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := deps.Profiles.GetProfile(p.Context, p.Args["user_id"].(string))
					if err != nil {
						return nil, err
					}
					return profileToMap(view), nil
				},
			},
			"leaderboard": &graphql.Field{
				Type:        graphql.NewList(entryType),
				Description: "Top users by totalDistance or totalPins",
				Args: graphql.FieldConfigArgument{
					"metric": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.MetricTotalDistance)},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					metric := domain.LeaderboardMetric(p.Args["metric"].(string))
					return deps.Profiles.Leaderboard(p.Context, metric, p.Args["limit"].(int))
				},
			},
			"communityRoutes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "Published routes, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					routes, err := deps.Routes.ListCommunity(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					return routesToMaps(routes), nil
				},
			},
			"nearbyRoutes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "Published routes starting near a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					routes, err := deps.Routes.ListNearby(p.Context,
						p.Args["lat"].(float64),
						p.Args["lng"].(float64),
						p.Args["radius"].(float64),
						p.Args["limit"].(int),
					)
					if err != nil {
						return nil, err
					}
					return routesToMaps(routes), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func profileToMap(v *domain.ProfileView) map[string]interface{} {
	return map[string]interface{}{
		"user_id":              v.UserID,
		"username":             v.Username,
		"bio":                  v.Bio,
		"location":             v.Location,
		"buy_me_a_coffee_link": v.BuyMeACoffeeLink,
		"total_pins":           v.TotalPins,
		"total_distance":       v.TotalDistance,
		"total_distance_miles": v.TotalDistanceMiles,
		"total_routes":         v.TotalRoutes,
		"badges":               v.EarnedBadges,
	}
}

func routesToMaps(routes []domain.CommunityRoute) []map[string]interface{} {
	out := make([]map[string]interface{}, len(routes))
	for i, r := range routes {
		coords := make([][]interface{}, len(r.Route))
		for j, c := range r.Route {
			coords[j] = []interface{}{finiteOrNil(c.Lng()), finiteOrNil(c.Lat())}
		}
		pins := make([]map[string]interface{}, len(r.Pins))
		for j, pin := range r.Pins {
			c := pin.Coords.Coordinate()
			pins[j] = map[string]interface{}{
				"id":        pin.ID,
				"title":     pin.Title,
				"category":  pin.Category,
				"image_url": pin.ImageURL,
				"lng":       finiteOrNil(c.Lng()),
				"lat":       finiteOrNil(c.Lat()),
			}
		}
		m := map[string]interface{}{
			"id":              r.ID,
			"user_id":         r.UserID,
			"username":        r.Username,
			"timestamp":       r.Timestamp.Format(time.RFC3339),
			"distance_meters": r.DistanceMeters,
			"route":           coords,
			"pins":            pins,
		}
		if r.Distance != nil {
			m["distance"] = *r.Distance
		}
		out[i] = m
	}
	return out
}

// finiteOrNil resolves a missing (NaN) component to null.
func finiteOrNil(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
