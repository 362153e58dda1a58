package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// Seed account emails, also used by SeedMarketplace to assign demo orders
const (
	seedDriverEmail = "driver@farmroute.app"
	seedAdminEmail  = "admin@farmroute.app"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	driverPassword, err := bcrypt.GenerateFromPassword([]byte("driver123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{
			"id":       uuid.New().String(),
			"email":    seedDriverEmail,
			"password": string(driverPassword),
			"name":     "Dana Driver",
			"role":     "driver",
		},
		{
			"id":       uuid.New().String(),
			"email":    seedAdminEmail,
			"password": string(adminPassword),
			"name":     "Admin User",
			"role":     "admin",
		},
	}

	for _, user := range users {
		query := `
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", user["email"], user["role"])
	}

	log.Println("✓ Successfully seeded test users")
	log.Printf("  📧 Driver: %s / driver123", seedDriverEmail)
	log.Printf("  📧 Admin:  %s / admin123", seedAdminEmail)
	return nil
}

type seedSeller struct {
	name     string
	address  string
	products []string
}

type seedOrder struct {
	street, city, state, zip string
	// indexes into the flattened product list
	products []int
}

// SeedMarketplace creates demo sellers, products and orders assigned to the
// seed driver. Two orders share a farm so pickup deduplication is visible.
func SeedMarketplace(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM sellers"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Marketplace already seeded, skipping...")
		return nil
	}

	var driverID string
	if err := db.Get(&driverID, "SELECT id FROM users WHERE email = $1", seedDriverEmail); err != nil {
		return err
	}

	log.Println("🌱 Seeding marketplace...")

	sellers := []seedSeller{
		{"Green Acres Farm", "1450 Freedom Blvd, Watsonville, CA 95076", []string{"Strawberries (flat)", "Lettuce"}},
		{"Sunny Side Orchard", "2200 Pleasant Valley Rd, Aptos, CA 95003", []string{"Apples (5 lb)", "Apple Cider"}},
		{"Coastal Dairy", "88 Harbor Dr, Santa Cruz, CA 95062", []string{"Whole Milk", "Butter"}},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var productIDs []string
	for _, s := range sellers {
		sellerID := uuid.New().String()
		if _, err := tx.Exec(`INSERT INTO sellers (id, business_name, business_address) VALUES ($1, $2, $3)`,
			sellerID, s.name, s.address); err != nil {
			return err
		}
		for i, name := range s.products {
			productID := uuid.New().String()
			if _, err := tx.Exec(`INSERT INTO products (id, seller_id, name, price_cents) VALUES ($1, $2, $3, $4)`,
				productID, sellerID, name, 499+i*250); err != nil {
				return err
			}
			productIDs = append(productIDs, productID)
		}
	}

	orders := []seedOrder{
		{"415 Mission St", "Santa Cruz", "CA", "95060", []int{0, 4}},
		{"120 Soquel Ave", "Santa Cruz", "CA", "95062", []int{1, 2}},
		{"9 Seascape Blvd", "Aptos", "CA", "95003", []int{3}},
	}

	for _, o := range orders {
		addressID := uuid.New().String()
		if _, err := tx.Exec(`INSERT INTO addresses (id, street, city, state, zip) VALUES ($1, $2, $3, $4, $5)`,
			addressID, o.street, o.city, o.state, o.zip); err != nil {
			return err
		}

		orderID := uuid.New().String()
		if _, err := tx.Exec(`
			INSERT INTO orders (id, customer_id, driver_id, delivery_address_id, status, total_cents)
			VALUES ($1, $2, $3, $4, 'confirmed', 0)
		`, orderID, uuid.New().String(), driverID, addressID); err != nil {
			return err
		}

		for _, p := range o.products {
			if _, err := tx.Exec(`INSERT INTO order_items (id, order_id, product_id, quantity) VALUES ($1, $2, $3, 1)`,
				uuid.New().String(), orderID, productIDs[p]); err != nil {
				return err
			}
		}
		log.Printf("  ✓ Created order for %s, %s", o.street, o.city)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("✓ Successfully seeded %d sellers and %d orders", len(sellers), len(orders))
	return nil
}
