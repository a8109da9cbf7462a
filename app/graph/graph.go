// Package graph exposes a read-only GraphQL endpoint for the
// storefront: the catalogue, published posts and order lookup by
// payment reference.
package graph

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/services"
	gqlschema "github.com/pentshop/pentshop/pkg/graphql"
	"github.com/pentshop/pentshop/pkg/response"
)

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"productId": &graphql.Field{Type: graphql.String},
		"name":      &graphql.Field{Type: graphql.String},
		"price":     &graphql.Field{Type: graphql.Float},
		"quantity":  &graphql.Field{Type: graphql.Int},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"userEmail": &graphql.Field{Type: graphql.String},
		"amount":    &graphql.Field{Type: graphql.Float},
		"reference": &graphql.Field{Type: graphql.String},
		"status":    &graphql.Field{Type: graphql.String},
		"products":  &graphql.Field{Type: graphql.NewList(orderItemType)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"colors":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"sizes":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.String},
		"title":   &graphql.Field{Type: graphql.String},
		"content": &graphql.Field{Type: graphql.String},
		"type":    &graphql.Field{Type: graphql.String},
		"author":  &graphql.Field{Type: graphql.String},
		"views":   &graphql.Field{Type: graphql.Int},
		"likes":   &graphql.Field{Type: graphql.Int},
	},
})

// PublishedLister is the slice of the post repository the schema needs.
type PublishedLister interface {
	Published(ctx context.Context, limit int64) ([]models.Post, error)
}

// Handler serves POST /graphql.
type Handler struct {
	schema graphql.Schema
}

// New builds the schema over the order, product and post services.
func New(orders *services.OrderService, products *services.ProductService, posts PublishedLister) (*Handler, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.List(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return products.Get(p.Context, id)
				},
			},
			"orderByReference": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"reference": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ref, _ := p.Args["reference"].(string)
					return orders.GetByReference(p.Context, ref)
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					return posts.Published(p.Context, int64(limit))
				},
			},
		},
	})

	schema, err := gqlschema.NewSchema(rootQuery)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

// ServeHTTP executes a GraphQL query posted as {"query": "...", "variables": {...}}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result) //nolint:errcheck
}
