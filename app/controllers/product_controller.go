package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

// maxUploadBytes caps a single product image at 8 MB.
const maxUploadBytes = 8 << 20

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List handles GET /api/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Get handles GET /api/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Create handles POST /api/products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if errs, err := bind.JSON(r, &product); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.Create(r.Context(), &product); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/products/{id}. Only the provided fields
// are written.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Colors      []string `json:"colors"`
		Sizes       []string `json:"sizes"`
		Images      []string `json:"images"`
	}
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := bson.M{}
	if body.Name != nil {
		fields["name"] = *body.Name
	}
	if body.Description != nil {
		fields["description"] = *body.Description
	}
	if body.Price != nil {
		fields["price"] = *body.Price
	}
	if body.Colors != nil {
		fields["colors"] = body.Colors
	}
	if body.Sizes != nil {
		fields["sizes"] = body.Sizes
	}
	if body.Images != nil {
		fields["images"] = body.Images
	}
	if len(fields) == 0 {
		response.Error(w, http.StatusBadRequest, "no fields to update")
		return
	}

	product, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /api/products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}

// Upload handles POST /api/products/upload. It accepts a multipart
// form with an "image" file and returns the public URL.
func (c *ProductController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read image")
		return
	}

	url, err := c.service.UploadImage(header.Filename, content)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]string{"url": url})
}
