package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"carserv-backend/config"
	"carserv-backend/routes"
	"carserv-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.Bool("migrate", false, "run schema migration and exit")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := run(*migrate); err != nil {
		log.Fatal(err)
	}
}

// run owns the database lifecycle so the pool closes on every exit
// path, including failures.
func run(migrate bool) error {
	db, err := config.Open(os.Getenv("DB_URL"))
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer config.Close(db)

	// Schema changes are an explicit step, never a boot side effect.
	if migrate {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Println("Migration complete")
		return nil
	}

	customers := services.NewCustomerDirectory(db)
	catalog := services.NewCatalog(db)
	minter := services.NewTokenMinter()
	bookings := services.NewBookingService(db, customers, catalog, minter)
	jobs := services.NewJobService(db)
	reminders := services.NewReminderService(db)

	if reminders.Enabled() {
		scheduler := reminders.StartScheduler()
		defer scheduler.Stop()
	}

	r := routes.SetupRouter(routes.Deps{
		DB:        db,
		Bookings:  bookings,
		Customers: customers,
		Catalog:   catalog,
		Jobs:      jobs,
		Reminders: reminders,
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
