// Command seed wipes the database and loads a small demo data set: an
// admin, three farmers with approved and pending products, two buyers,
// a few orders in various states and reviews on the delivered one.
// Intended for local development only.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"agrihub/internal/auth"
	"agrihub/internal/models"
)

func main() {
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		infoLog.Println("no .env file found, using environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		errorLog.Fatal("MONGO_URI environment variable not found")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "agrihub"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := models.OpenDB(ctx, uri, dbName)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		errorLog.Fatal(err)
	}

	if err := seed(ctx, store, infoLog); err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("Seeding complete!")
}

func seed(ctx context.Context, store *models.Store, infoLog *log.Logger) error {
	if err := wipe(ctx, store); err != nil {
		return err
	}

	farmers, buyers, err := seedUsers(ctx, store, infoLog)
	if err != nil {
		return err
	}

	products, err := seedProducts(ctx, store, infoLog, farmers)
	if err != nil {
		return err
	}

	delivered, err := seedOrders(ctx, store, infoLog, buyers, products)
	if err != nil {
		return err
	}

	if err := seedReviews(ctx, store, infoLog, delivered); err != nil {
		return err
	}

	return seedNotifications(ctx, store, infoLog, farmers, buyers)
}

func wipe(ctx context.Context, store *models.Store) error {
	colls := []*mongo.Collection{
		store.Users,
		store.Products,
		store.CartItems,
		store.Orders,
		store.OrderItems,
		store.Reviews,
		store.Notifications,
	}
	for _, coll := range colls {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clearing %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func seedUsers(ctx context.Context, store *models.Store, infoLog *log.Logger) (farmers, buyers []*models.User, err error) {
	type userSpec struct {
		email, password, name, phone, address string
		role                                  auth.Role
	}

	specs := []userSpec{
		{"admin@agrihub.com", "admin123", "Admin User", "+91 9876543210", "AgriHub HQ, Chennai", auth.RoleAdmin},
		{"farmer1@example.com", "farmer123", "Raj Kumar", "+91 9876543211", "Village: Thanjavur, Tamil Nadu", auth.RoleFarmer},
		{"farmer2@example.com", "farmer123", "Suresh Patel", "+91 9876543212", "Village: Coimbatore, Tamil Nadu", auth.RoleFarmer},
		{"farmer3@example.com", "farmer123", "Lakshmi Devi", "+91 9876543213", "Village: Madurai, Tamil Nadu", auth.RoleFarmer},
		{"buyer1@example.com", "buyer123", "Arun Sharma", "+91 9876543214", "123 MG Road, Chennai", auth.RoleBuyer},
		{"buyer2@example.com", "buyer123", "Priya Singh", "+91 9876543215", "456 Park Street, Bangalore", auth.RoleBuyer},
	}

	for _, s := range specs {
		user, err := store.InsertUser(ctx, s.email, s.password, s.name, s.phone, s.address, s.role)
		if err != nil {
			return nil, nil, fmt.Errorf("inserting user %s: %w", s.email, err)
		}
		switch s.role {
		case auth.RoleFarmer:
			farmers = append(farmers, user)
		case auth.RoleBuyer:
			buyers = append(buyers, user)
		}
	}

	infoLog.Printf("Created %d users", len(specs))
	return farmers, buyers, nil
}

type productSpec struct {
	farmer      int
	name        string
	category    string
	price       float64
	quantity    int
	description string
	approved    bool
}

var productSpecs = []productSpec{
	{0, "Fresh Tomatoes", "Vegetables", 40, 500, "Farm-fresh red tomatoes, perfect for cooking.", true},
	{0, "Organic Potatoes", "Vegetables", 30, 1000, "Chemical-free organic potatoes, freshly harvested.", true},
	{0, "Green Chillies", "Vegetables", 60, 200, "Fresh spicy green chillies.", false},
	{1, "Basmati Rice", "Grains", 80, 2000, "Premium basmati rice with long grains.", true},
	{1, "Wheat Flour", "Grains", 45, 1500, "Stone-ground wheat flour.", true},
	{1, "Organic Turmeric", "Spices", 120, 100, "Organic turmeric powder with high curcumin content.", true},
	{2, "Fresh Mangoes", "Fruits", 100, 500, "Juicy Alphonso mangoes, sweet and delicious.", true},
	{2, "Bananas", "Fruits", 40, 800, "Fresh yellow bananas, rich in potassium.", true},
	{2, "Red Lentils", "Pulses", 90, 600, "Protein-rich red lentils, easy to cook.", true},
	{2, "Coconuts", "Fruits", 35, 300, "Fresh coconuts with sweet water.", false},
}

func seedProducts(ctx context.Context, store *models.Store, infoLog *log.Logger, farmers []*models.User) ([]*models.Product, error) {
	var products []*models.Product
	for _, s := range productSpecs {
		p, err := store.InsertProduct(ctx, &models.Product{
			FarmerID:    farmers[s.farmer].ID,
			Name:        s.name,
			Category:    s.category,
			Price:       s.price,
			Quantity:    s.quantity,
			Description: s.description,
			Images:      []string{},
		})
		if err != nil {
			return nil, fmt.Errorf("inserting product %s: %w", s.name, err)
		}
		if s.approved {
			if err := store.SetProductStatus(ctx, p.ID, models.ProductApproved); err != nil {
				return nil, fmt.Errorf("approving product %s: %w", s.name, err)
			}
			p.Status = models.ProductApproved
		}
		products = append(products, p)
	}

	infoLog.Printf("Created %d products", len(products))
	return products, nil
}

// seedOrders creates one order for each of the first few approved
// products, alternating buyers, and marks the first one delivered so it
// can carry reviews.
func seedOrders(ctx context.Context, store *models.Store, infoLog *log.Logger, buyers []*models.User, products []*models.Product) (*models.Order, error) {
	statuses := []string{models.OrderDelivered, models.OrderShipped, models.OrderConfirmed, models.OrderPending}

	var delivered *models.Order
	var count int
	for _, p := range products {
		if count >= len(statuses) {
			break
		}
		if p.Status != models.ProductApproved {
			continue
		}

		buyer := buyers[count%len(buyers)]
		quantity := 2 + count
		order := &models.Order{
			BuyerID:         buyer.ID,
			FarmerID:        p.FarmerID,
			TotalAmount:     p.Price * float64(quantity),
			Status:          models.OrderPending,
			ShippingAddress: buyer.Address,
		}
		if _, err := store.InsertOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("inserting order: %w", err)
		}
		err := store.InsertOrderItem(ctx, &models.OrderItem{
			OrderID:         order.ID,
			ProductID:       p.ID,
			Quantity:        quantity,
			PriceAtPurchase: p.Price,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting order item: %w", err)
		}
		if err := store.UpdateOrderStatus(ctx, order.ID, statuses[count]); err != nil {
			return nil, fmt.Errorf("updating order status: %w", err)
		}
		order.Status = statuses[count]
		if order.Status == models.OrderDelivered {
			delivered = order
		}
		count++
	}

	infoLog.Printf("Created %d orders", count)
	return delivered, nil
}

func seedReviews(ctx context.Context, store *models.Store, infoLog *log.Logger, delivered *models.Order) error {
	if delivered == nil {
		return nil
	}

	items, err := store.GetOrderItems(ctx, delivered.ID)
	if err != nil {
		return fmt.Errorf("loading delivered order items: %w", err)
	}

	var count int
	for _, item := range items {
		_, err := store.InsertReview(ctx, &models.Review{
			ProductID: item.ProductID,
			BuyerID:   delivered.BuyerID,
			OrderID:   delivered.ID,
			Rating:    5,
			Text:      "Excellent quality! Very fresh and delivered on time.",
		})
		if err != nil {
			return fmt.Errorf("inserting review: %w", err)
		}
		if _, _, err := store.RecomputeProductRating(ctx, item.ProductID); err != nil {
			return fmt.Errorf("recomputing rating: %w", err)
		}
		count++
	}

	infoLog.Printf("Created %d reviews", count)
	return nil
}

func seedNotifications(ctx context.Context, store *models.Store, infoLog *log.Logger, farmers, buyers []*models.User) error {
	type note struct {
		userID  primitive.ObjectID
		kind    string
		message string
	}

	var notes []note
	for _, f := range farmers {
		notes = append(notes, note{f.ID, "new_order", "New order received!"})
	}
	for _, b := range buyers {
		notes = append(notes, note{b.ID, "order_status_update", "Your order has been shipped"})
	}

	for _, n := range notes {
		_, err := store.InsertNotification(ctx, &models.Notification{
			UserID:  n.userID,
			Type:    n.kind,
			Message: n.message,
		})
		if err != nil {
			return fmt.Errorf("inserting notification: %w", err)
		}
	}

	infoLog.Printf("Created %d notifications", len(notes))
	return nil
}
