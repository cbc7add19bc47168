package controllers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/config"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index lists products: ?category=&search=&sort=&page=&limit=
func (c *ProductController) Index(ctx *appctx.Context) {
	page, err := c.catalog.List(ctx.Context(), services.ListQuery{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		Sort:     ctx.Query("sort"),
		Page:     ctx.QueryInt("page", 1),
		Limit:    ctx.QueryInt("limit", 0),
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(page)
}

func (c *ProductController) Show(ctx *appctx.Context) {
	product, err := c.catalog.Get(ctx.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(product)
}

func (c *ProductController) Store(ctx *appctx.Context) {
	var in services.ProductInput
	if !ctx.BindJSON(&in) {
		return
	}

	product, err := c.catalog.Create(ctx.Context(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Created("Product created", product)
}

// UploadImage accepts a multipart form with the file in the "image" field.
func (c *ProductController) UploadImage(ctx *appctx.Context) {
	limit := int64(config.Int("MAX_UPLOAD_BYTES", 5<<20))
	ctx.R.Body = http.MaxBytesReader(ctx.W, ctx.R.Body, limit)

	file, header, err := ctx.R.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.Error(http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		ctx.ValidationError(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	product, err := c.catalog.AttachImage(ctx.Context(), ctx.Param("id"), services.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.SuccessMessage("Image uploaded", product)
}

func (c *ProductController) Categories(ctx *appctx.Context) {
	cats, err := c.catalog.Categories(ctx.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(cats)
}

func (c *ProductController) Suggestions(ctx *appctx.Context) {
	names, err := c.catalog.Suggestions(ctx.Context(), ctx.Query("q"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(names)
}
