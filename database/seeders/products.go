package seeders

import (
	"context"

	"github.com/shashiranjanraj/glamify/app/services"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts the sample catalog when the products collection is
// empty. It is a no-op otherwise.
func SeedProducts(ctx context.Context, env Env) error {
	n, err := env.Repos.Products.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, in := range sampleProducts() {
		if _, err := env.Services.Catalog.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func sampleProducts() []services.ProductInput {
	return []services.ProductInput{
		sample("Radiant Glow Foundation", "makeup", 45.99, 59.99, 4.8, 1234, 50,
			"https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=300&h=300&fit=crop",
			"Full coverage foundation with a natural, radiant finish", "Bestseller"),
		sample("Hydrating Face Serum", "skincare", 32.50, 42.50, 4.9, 892, 75,
			"https://images.unsplash.com/photo-1620916566398-39f1143ab7be?w=300&h=300&fit=crop",
			"Vitamin C serum for glowing, youthful skin", "New"),
		sample("Velvet Matte Lipstick", "makeup", 24.99, 29.99, 4.7, 567, 30,
			"https://images.unsplash.com/photo-1586495777744-4413f21062fa?w=300&h=300&fit=crop",
			"Long-lasting matte lipstick in rich, vibrant colors", "Limited Edition"),
		sample("Enchanted Rose Perfume", "fragrance", 89.99, 120.00, 4.6, 234, 25,
			"https://images.unsplash.com/photo-1541643600914-78b084683601?w=300&h=300&fit=crop",
			"Elegant floral fragrance with notes of rose and jasmine", "Premium"),
		sample("Nourishing Hair Mask", "haircare", 28.75, 35.00, 4.5, 445, 60,
			"https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=300&h=300&fit=crop",
			"Deep conditioning treatment for silky, healthy hair", "Sale"),
		sample("Glowing Eye Palette", "makeup", 52.00, 65.00, 4.8, 789, 40,
			"https://images.unsplash.com/photo-1512496015851-a90fb38ba796?w=300&h=300&fit=crop",
			"12 stunning shades for every occasion", "Trending"),
	}
}

func sample(name, category string, price, original, rating float64, reviews, stock int, image, description, tag string) services.ProductInput {
	return services.ProductInput{
		Name:          name,
		Category:      category,
		Price:         &price,
		OriginalPrice: &original,
		Rating:        rating,
		Reviews:       reviews,
		Image:         image,
		Description:   description,
		Tag:           tag,
		Stock:         &stock,
	}
}
