package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"littlefolio/internal/models/pfanalytics"
	"littlefolio/internal/models/pfauth"
	"littlefolio/internal/models/pfcaptchas"
	"littlefolio/internal/models/pfconfig"
	"littlefolio/internal/models/pflog"
	"littlefolio/internal/models/pfmessages"
	"littlefolio/internal/models/pfportfolio"
	"littlefolio/internal/models/pfsite"
	"littlefolio/internal/pfmiddleware"
	"littlefolio/internal/pfnotify"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ============= Setup et Teardown =============

func HashPassword(pass string) (string, error) {
	hash, err := argon2.GenerateFromPassword([]byte(pass), argon2.DefaultParams)
	return string(hash), err
}

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&pfportfolio.Project{},
		&pfportfolio.Skill{},
		&pfportfolio.Qualification{},
		&pfmessages.ContactMessage{},
		&pfauth.OTPCode{},
		&pfanalytics.Visitor{},
		&pfanalytics.PageView{},
		&pfanalytics.Event{},
	)
	require.NoError(t, err)

	return testDB
}

func setupTestSite(t *testing.T) *pfsite.Littlefolio {
	testDB := setupTestDB(t)

	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	config := &pfconfig.Config{
		Database: pfconfig.DatabaseConfig{
			Db:   "sqlite",
			Path: ":memory:",
		},
		User: pfconfig.UserConfig{
			Login: "admin",
			Hash:  hash,
		},
		AdminPath:  "/admin",
		StaticPath: t.TempDir(),
		Production: false,
		Logger:     pfconfig.LoggerConfig{},
	}
	pflog.InitLogger(config.Logger, false)

	return &pfsite.Littlefolio{
		Db:            testDB,
		Configuration: config,
		Captcha:       pfcaptchas.New("", 0),
		Analytics:     pfanalytics.NewAnalyticsService(testDB, nil, "", 90),
		Portfolio:     pfportfolio.NewPortfolioService(testDB),
		Messages:      pfmessages.NewMessageService(testDB),
		OTP:           pfauth.NewOTPService(testDB),
		Notifier:      pfnotify.NewNotifier(),
		Version:       VERSION,
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Setup sessions et CORS
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test-session", store))
	r.Use(pfmiddleware.CORS)

	return r
}

func setupTestServer(t *testing.T) (*gin.Engine, *pfsite.Littlefolio) {
	site := setupTestSite(t)
	r := setupTestRouter()
	setRoutes(r, site)
	return r, site
}

func performRequest(r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// ============= Tests pour l'API publique =============

func TestGetProjects_OnlyVisible(t *testing.T) {
	r, site := setupTestServer(t)

	require.NoError(t, site.Db.Create(&pfportfolio.Project{Title: "Visible", IsVisible: true}).Error)
	require.NoError(t, site.Db.Create(&pfportfolio.Project{Title: "Caché", IsVisible: false}).Error)

	w := performRequest(r, "GET", "/api/projects", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var projects []pfportfolio.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "Visible", projects[0].Title)
}

func TestContact_Success(t *testing.T) {
	r, site := setupTestServer(t)

	w := performRequest(r, "POST", "/api/contact", gin.H{
		"name":    "Alice",
		"email":   "alice@example.com",
		"message": "Bonjour !",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, true, response["success"])

	data := response["data"].(map[string]any)
	assert.Equal(t, "Alice", data["name"])

	var count int64
	site.Db.Model(&pfmessages.ContactMessage{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestContact_MissingFields(t *testing.T) {
	r, site := setupTestServer(t)

	tests := []gin.H{
		{"email": "a@b.com", "message": "x"},
		{"name": "Alice", "message": "x"},
		{"name": "Alice", "email": "a@b.com"},
		{"name": "  ", "email": "a@b.com", "message": "x"},
	}
	for _, body := range tests {
		w := performRequest(r, "POST", "/api/contact", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, false, response["success"])
	}

	var count int64
	site.Db.Model(&pfmessages.ContactMessage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestContact_MethodNotAllowed(t *testing.T) {
	r, _ := setupTestServer(t)

	for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
		w := performRequest(r, method, "/api/contact", nil, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}

func TestContact_Preflight(t *testing.T) {
	r, _ := setupTestServer(t)

	// Le préflight OPTIONS reçoit un 200 sans corps
	w := performRequest(r, "OPTIONS", "/api/contact", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestContact_InvalidCaptcha(t *testing.T) {
	r, _ := setupTestServer(t)

	w := performRequest(r, "POST", "/api/contact", gin.H{
		"name":          "Alice",
		"email":         "a@b.com",
		"message":       "x",
		"captchaID":     "inexistant",
		"captchaAnswer": "42",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, false, response["success"])
}

func TestContact_StorageError(t *testing.T) {
	r, site := setupTestServer(t)

	// Une panne de la base n'est pas une erreur de validation : 500, pas 400
	require.NoError(t, site.Db.Migrator().DropTable(&pfmessages.ContactMessage{}))

	w := performRequest(r, "POST", "/api/contact", gin.H{
		"name":    "Alice",
		"email":   "alice@example.com",
		"message": "Bonjour !",
	}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, false, response["success"])
}

func TestRecordEvent(t *testing.T) {
	r, _ := setupTestServer(t)

	// category et action obligatoires
	w := performRequest(r, "POST", "/api/events", gin.H{"action": "click"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, "POST", "/api/events", gin.H{"category": "cta"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, "POST", "/api/events", gin.H{
		"category": "cta",
		"action":   "click",
		"label":    "github",
	}, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

// ============= Tests pour l'authentification =============

func TestLogin_WrongCredentials(t *testing.T) {
	r, _ := setupTestServer(t)

	w := performRequest(r, "POST", "/admin/login", gin.H{
		"username": "admin",
		"password": "mauvais-mot-de-passe",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, "POST", "/admin/login", gin.H{
		"username": "inconnu",
		"password": "motdepasse123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerify_WithoutPendingLogin(t *testing.T) {
	r, _ := setupTestServer(t)

	w := performRequest(r, "POST", "/admin/verify", gin.H{"code": "123456"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFlow(t *testing.T) {
	r, site := setupTestServer(t)

	// Premier facteur : mot de passe correct
	w := performRequest(r, "POST", "/admin/login", gin.H{
		"username": "admin",
		"password": "motdepasse123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, true, response["otp_required"])
	cookies := w.Result().Cookies()

	// Un code a été généré en base
	var otp pfauth.OTPCode
	require.NoError(t, site.Db.First(&otp).Error)
	require.Len(t, otp.Code, 6)

	// Pas encore de session authentifiée
	w = performRequest(r, "GET", "/admin/api/projects", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Mauvais code : rejeté, l'étape n'est pas perdue
	w = performRequest(r, "POST", "/admin/verify", gin.H{"code": "000000"}, cookies)
	if otp.Code != "000000" {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Bon code : session établie
	w = performRequest(r, "POST", "/admin/verify", gin.H{"code": otp.Code}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeBody(t, w)
	assert.Equal(t, "/admin", response["redirect"])
	authCookies := w.Result().Cookies()

	// Le code est à usage unique
	var count int64
	site.Db.Model(&pfauth.OTPCode{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// La session ouvre l'API d'administration
	w = performRequest(r, "GET", "/admin/api/projects", nil, authCookies)
	assert.Equal(t, http.StatusOK, w.Code)

	// Déconnexion
	w = performRequest(r, "POST", "/admin/logout", nil, authCookies)
	assert.Equal(t, http.StatusOK, w.Code)
	loggedOut := w.Result().Cookies()

	w = performRequest(r, "GET", "/admin/api/projects", nil, loggedOut)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResend_InvalidatesPreviousCode(t *testing.T) {
	r, site := setupTestServer(t)

	w := performRequest(r, "POST", "/admin/login", gin.H{
		"username": "admin",
		"password": "motdepasse123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	var first pfauth.OTPCode
	require.NoError(t, site.Db.First(&first).Error)

	w = performRequest(r, "POST", "/admin/resend", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Un seul code valide à la fois
	var count int64
	site.Db.Model(&pfauth.OTPCode{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var second pfauth.OTPCode
	require.NoError(t, site.Db.First(&second).Error)
	assert.NotEqual(t, first.ID, second.ID)
}

// ============= Tests pour l'API d'administration =============

func TestAdminAPI_RequiresAuth(t *testing.T) {
	r, _ := setupTestServer(t)

	paths := []string{
		"/admin/api/projects",
		"/admin/api/skills",
		"/admin/api/qualifications",
		"/admin/api/messages",
		"/admin/api/analytics/stats",
	}
	for _, path := range paths {
		w := performRequest(r, "GET", path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func authenticate(t *testing.T, r *gin.Engine, site *pfsite.Littlefolio) []*http.Cookie {
	w := performRequest(r, "POST", "/admin/login", gin.H{
		"username": "admin",
		"password": "motdepasse123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var otp pfauth.OTPCode
	require.NoError(t, site.Db.First(&otp).Error)

	w = performRequest(r, "POST", "/admin/verify", gin.H{"code": otp.Code}, w.Result().Cookies())
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func TestAdminProjects_CRUD(t *testing.T) {
	r, site := setupTestServer(t)
	cookies := authenticate(t, r, site)

	// Création
	w := performRequest(r, "POST", "/admin/api/projects", gin.H{
		"title":      "Littlefolio",
		"tech_stack": []string{"Go", "Gin"},
		"category":   "website",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	response := decodeBody(t, w)
	id := uint(response["project_id"].(float64))

	created, err := site.Portfolio.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, "Littlefolio", created.Title)
	assert.True(t, created.IsVisible)
	assert.Equal(t, []string{"Go", "Gin"}, created.TechList)

	// Mise à jour
	w = performRequest(r, "PUT", fmt.Sprintf("/admin/api/projects/%d", id), gin.H{
		"title":      "Littlefolio v2",
		"is_visible": false,
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := site.Portfolio.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, "Littlefolio v2", updated.Title)
	assert.False(t, updated.IsVisible)

	// La date de création survit à la mise à jour
	assert.False(t, updated.CreatedAt.IsZero())
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)

	// Suppression
	w = performRequest(r, "DELETE", fmt.Sprintf("/admin/api/projects/%d", id), nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = site.Portfolio.GetProject(id)
	assert.Error(t, err)
}

func TestAdminUpdateSkill_NotFound(t *testing.T) {
	r, site := setupTestServer(t)
	cookies := authenticate(t, r, site)

	// Mettre à jour une compétence inexistante ne doit pas en créer une
	w := performRequest(r, "PUT", "/admin/api/skills/9999", gin.H{
		"name":     "Go",
		"category": "languages",
	}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	site.Db.Model(&pfportfolio.Skill{}).Count(&count)
	assert.Equal(t, int64(0), count)

	w = performRequest(r, "PUT", "/admin/api/qualifications/9999", gin.H{
		"title": "X",
		"type":  "education",
	}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminMessages(t *testing.T) {
	r, site := setupTestServer(t)
	cookies := authenticate(t, r, site)

	msg, err := site.Messages.Create("Alice", "a@b.com", "Bonjour")
	require.NoError(t, err)

	w := performRequest(r, "GET", "/admin/api/messages", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "PUT", fmt.Sprintf("/admin/api/messages/%d/read", msg.ID), nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	unread, err := site.Messages.CountUnread()
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Message inexistant
	w = performRequest(r, "PUT", "/admin/api/messages/9999/read", nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, "DELETE", fmt.Sprintf("/admin/api/messages/%d", msg.ID), nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAnalytics(t *testing.T) {
	r, site := setupTestServer(t)
	cookies := authenticate(t, r, site)

	visitor, err := site.Analytics.BootstrapVisitor("session-1", "Mozilla/5.0 (X11; Linux x86_64)", "", "")
	require.NoError(t, err)
	require.NoError(t, site.Analytics.RecordPageView(visitor.ID, "/"))

	w := performRequest(r, "GET", "/admin/api/analytics/stats?period=day", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, float64(1), response["total_visitors"])
	assert.Equal(t, float64(1), response["total_page_views"])

	w = performRequest(r, "GET", "/admin/api/analytics/traffic?period=week", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "GET", "/admin/api/analytics/devices", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}
