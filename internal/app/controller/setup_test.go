package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/config"
	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
	"github.com/ikkim/kidsshop-backend/internal/session"
	"github.com/ikkim/kidsshop-backend/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret     = "test-secret"
	testSessionCookie = "kids_session"
)

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	auth   service.AuthService
	carts  service.CartService
}

func setupTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	ledger := service.NewStockLedger(productRepo, service.StockPolicyAdvisory)

	authService := service.NewAuthService(repository.NewUserRepository(testDB), testJWTSecret, 15*time.Minute, 24*time.Hour)
	cartService := service.NewCartService(testDB, cartRepo, ledger, session.NewRedisStore(redisClient, time.Hour))
	orderService := service.NewOrderService(testDB, repository.NewOrderRepository(testDB), cartRepo, ledger)
	catalogService := service.NewCatalogService(productRepo, repository.NewCatalogRepository(testDB))
	favoriteService := service.NewFavoriteService(repository.NewFavoriteRepository(testDB), catalogService)

	sessions := middleware.NewSessionMiddleware(config.SessionConfig{
		CookieName: testSessionCookie,
		TTL:        time.Hour,
	})
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)

	authCtrl := NewAuthController(authService, cartService, sessions)
	cartCtrl := NewCartController(cartService, sessions)
	orderCtrl := NewOrderController(orderService)
	productCtrl := NewProductController(catalogService)
	favoriteCtrl := NewFavoriteController(favoriteService)

	router := gin.New()
	router.Use(sessions.Extract())

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/auth/me", authMiddleware.Authenticate(), authCtrl.GetMe)
	router.PUT("/auth/me", authMiddleware.Authenticate(), authCtrl.UpdateMe)

	cart := router.Group("/cart", authMiddleware.OptionalAuthenticate())
	cart.GET("", cartCtrl.GetCart)
	cart.DELETE("", cartCtrl.ClearCart)
	cart.POST("/items", cartCtrl.AddItem)
	cart.PUT("/items/:id", cartCtrl.UpdateItem)
	cart.DELETE("/items/:id", cartCtrl.RemoveItem)
	cart.POST("/merge", cartCtrl.MergeCart)

	orders := router.Group("/orders", authMiddleware.Authenticate())
	orders.POST("", orderCtrl.Checkout)
	orders.GET("", orderCtrl.GetOrders)
	orders.GET("/:id", orderCtrl.GetOrderByID)
	orders.PUT("/:id/status", authMiddleware.RequireAdmin(), orderCtrl.UpdateOrderStatus)
	router.GET("/admin/orders", authMiddleware.Authenticate(), authMiddleware.RequireAdmin(), orderCtrl.ListAllOrders)

	router.GET("/products", productCtrl.ListProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)
	router.GET("/products/:id/variants", productCtrl.GetProductVariants)
	router.GET("/categories", productCtrl.ListCategories)
	router.GET("/colors", productCtrl.ListColors)
	router.GET("/sizes", productCtrl.ListSizes)

	favorites := router.Group("/favorites", authMiddleware.Authenticate())
	favorites.GET("", favoriteCtrl.GetFavorites)
	favorites.POST("/toggle", favoriteCtrl.ToggleFavorite)

	return &testApp{
		db:     testDB,
		router: router,
		auth:   authService,
		carts:  cartService,
	}
}

// request describes one call against the test router.
type request struct {
	method  string
	path    string
	body    interface{}
	token   string // bearer token
	session string // X-Session-Token
}

func (a *testApp) do(t *testing.T, r request) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.body))
	}

	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.session != "" {
		req.Header.Set(middleware.SessionTokenHeader, r.session)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerUser creates an account and returns it with an access token.
func (a *testApp) registerUser(t *testing.T, email string) (*model.User, string) {
	user, tokens, err := a.auth.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Password: "password123",
		Name:     "Test Parent",
	})
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (a *testApp) adminToken(t *testing.T) string {
	user, _ := a.registerUser(t, "admin@example.com")
	require.NoError(t, a.db.Model(user).Update("role", model.RoleAdmin).Error)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(model.RoleAdmin), testJWTSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func (a *testApp) stock(t *testing.T, article, price, salePrice string) *model.ProductStock {
	stock, err := db.CreateTestStock(a.db, article, price, salePrice, 10)
	require.NoError(t, err)
	return stock
}
