package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/talash/api-go/config"
	"github.com/talash/api-go/routes"
	"github.com/talash/api-go/storage"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize database
	db := config.InitDB()

	// Composition root: collaborators are built once here and passed down.
	googleConfig := config.NewGoogleConfig()

	var blobs storage.BlobStore
	if r2 := config.GetR2Config(); r2.Configured() {
		blobs = storage.NewR2BlobStore(storage.R2Options{
			AccountID:       r2.AccountID,
			AccessKeyID:     r2.AccessKeyID,
			SecretAccessKey: r2.SecretAccessKey,
			BucketName:      r2.BucketName,
			PublicURL:       r2.PublicURL,
			Region:          r2.Region,
		})
		log.Println("Using R2 blob storage")
	} else {
		blobs = storage.NewLocalBlobStore(config.UploadDir())
		log.Printf("Using local blob storage in %s", config.UploadDir())
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Serve locally stored uploads
	r.Static("/uploads", config.UploadDir())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online", "service": "Talash API", "version": "1.0.0"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Backend is running successfully"})
	})

	// Initialize routes
	routes.SetupRoutes(r, db, blobs, googleConfig)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
