// Package backendtest provides an in-memory implementation of the todo
// backend's HTTP surface, so the managers and the CLI can be exercised
// against a real server in tests. It enforces roles server-side the way
// the production backend does: the client's gating is only a hint.
package backendtest

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/jwt"
)

const signingKey = "backendtest-signing-key"

type user struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type list struct {
	ID      string
	Name    string
	OwnerID string
}

type task struct {
	ID       string
	ListID   string
	Title    string
	Status   todonet.Status
	DueDate  string
	Priority int
}

type membership struct {
	ID     string
	ListID string
	UserID string
	Role   string // wire form: OWNER, EDITOR, VIEWER
}

type Backend struct {
	mu sync.Mutex

	apiKey  string
	encoder *jwt.Encoder

	users       map[string]*user
	lists       map[string]*list
	tasks       map[string]*task
	memberships map[string]*membership
	missions    map[string]todonet.Mission

	nextID int

	upgrader websocket.Upgrader
	conns    map[string][]*wsConn
}

type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func New(apiKey string) *Backend {
	gin.SetMode(gin.ReleaseMode) // avoid unnecessary log

	return &Backend{
		apiKey:      apiKey,
		encoder:     jwt.NewEncoder([]byte(signingKey)),
		users:       make(map[string]*user),
		lists:       make(map[string]*list),
		tasks:       make(map[string]*task),
		memberships: make(map[string]*membership),
		missions:    make(map[string]todonet.Mission),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[string][]*wsConn),
	}
}

// AddUser registers a user directly, bypassing the signup endpoint.
func (b *Backend) AddUser(name, email, password string) todonet.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	u := &user{
		ID:       b.id("u"),
		Name:     name,
		Email:    email,
		Password: password,
	}
	b.users[u.ID] = u

	return todonet.User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// AddList registers a list directly, with an owner membership.
func (b *Backend) AddList(ownerID, name string) todonet.TodoList {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := &list{ID: b.id("l"), Name: name, OwnerID: ownerID}
	b.lists[l.ID] = l
	m := &membership{ID: b.id("m"), ListID: l.ID, UserID: ownerID, Role: "OWNER"}
	b.memberships[m.ID] = m

	return todonet.TodoList{ID: l.ID, Title: l.Name, OwnerID: l.OwnerID}
}

// AddMembership registers a membership directly. The role is in wire
// form (OWNER, EDITOR, VIEWER).
func (b *Backend) AddMembership(listID, userID, role string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := &membership{ID: b.id("m"), ListID: listID, UserID: userID, Role: role}
	b.memberships[m.ID] = m
	return m.ID
}

// HasConnection reports whether a notification connection is open for
// userID. Tests use it to wait for registration before notifying.
func (b *Backend) HasConnection(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns[userID]) > 0
}

// Token mints a valid bearer token for an existing user.
func (b *Backend) Token(userID string) string {
	tok, err := b.encoder.Encode(userID)
	if err != nil {
		panic(err)
	}
	return tok
}

// Notify pushes a notification event to every connection opened for
// userID.
func (b *Backend) Notify(userID, text string) {
	b.mu.Lock()
	conns := append([]*wsConn(nil), b.conns[userID]...)
	b.mu.Unlock()

	msg := map[string]string{"event": "notification", "text": text}
	for _, c := range conns {
		c.mu.Lock()
		c.conn.WriteJSON(msg)
		c.mu.Unlock()
	}
}

// Handler builds the gin engine serving the whole surface.
func (b *Backend) Handler() http.Handler {
	router := gin.New()

	router.POST("/auth/signup", b.signup)
	router.POST("/auth/login", b.login)

	router.GET("/users", b.listUsers)

	router.GET("/todo-apps", b.listApps)
	router.POST("/todo-apps", b.createApp)
	router.DELETE("/todo-apps/:id", b.deleteApp)

	router.GET("/tasks/:id", b.listTasks)
	router.POST("/tasks/:id", b.createTask)
	router.PATCH("/tasks/:id", b.updateTask)
	router.PATCH("/tasks/:id/status", b.updateTaskStatus)
	router.DELETE("/tasks/:id", b.deleteTask)

	router.GET("/memberships/:id", b.listMemberships)
	router.POST("/memberships/:id", b.createMembership)
	router.PATCH("/memberships/:id/:membershipID", b.updateMembership)
	router.DELETE("/memberships/:id/:membershipID", b.deleteMembership)

	router.POST("/missions", b.addMission)
	router.PUT("/missions/:id", b.updateMission)
	router.DELETE("/missions/:id", b.deleteMission)

	router.GET("/notifications", b.notifications)

	return router
}

// ---------------------------------------------------------------------
// helpers

func (b *Backend) id(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s%d", prefix, b.nextID)
}

func fail(c *gin.Context, code int, format string, args ...interface{}) {
	c.AbortWithStatusJSON(code, gin.H{"message": fmt.Sprintf(format, args...)})
}

// caller authenticates the bearer scheme and returns the user id.
func (b *Backend) caller(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}

	sub := jwt.Subject(strings.TrimPrefix(header, "Bearer "))
	b.mu.Lock()
	_, ok := b.users[sub]
	b.mu.Unlock()
	if sub == "" || !ok {
		fail(c, http.StatusUnauthorized, "invalid token")
		return "", false
	}

	return sub, true
}

// legacyCaller authenticates the x-auth-token / x-api-key pair.
func (b *Backend) legacyCaller(c *gin.Context) (string, bool) {
	if c.GetHeader("x-api-key") != b.apiKey {
		fail(c, http.StatusUnauthorized, "invalid api key")
		return "", false
	}

	sub := jwt.Subject(c.GetHeader("x-auth-token"))
	b.mu.Lock()
	_, ok := b.users[sub]
	b.mu.Unlock()
	if sub == "" || !ok {
		fail(c, http.StatusUnauthorized, "invalid token")
		return "", false
	}

	return sub, true
}

// roleOf returns the caller's role on a list in wire form, or "" when
// the caller is no member.
func (b *Backend) roleOf(listID, userID string) string {
	for _, m := range b.memberships {
		if m.ListID == listID && m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

func canEdit(role string) bool {
	return role == "OWNER" || role == "EDITOR"
}

// ---------------------------------------------------------------------
// auth

func (b *Backend) signup(c *gin.Context) {
	if c.GetHeader("x-api-key") != b.apiKey {
		fail(c, http.StatusUnauthorized, "invalid api key")
		return
	}

	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Email == "" || body.Password == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	b.mu.Lock()
	for _, u := range b.users {
		if u.Email == body.Email {
			b.mu.Unlock()
			fail(c, http.StatusBadRequest, "email already registered")
			return
		}
	}
	u := &user{
		ID:       b.id("u"),
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	}
	b.users[u.ID] = u
	b.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"access_token": b.Token(u.ID)})
}

func (b *Backend) login(c *gin.Context) {
	if c.GetHeader("x-api-key") != b.apiKey {
		fail(c, http.StatusUnauthorized, "invalid api key")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == body.Email && u.Password == body.Password {
			c.JSON(http.StatusOK, gin.H{"access_token": b.Token(u.ID)})
			return
		}
	}

	fail(c, http.StatusUnauthorized, "invalid credentials")
}

// ---------------------------------------------------------------------
// users

func (b *Backend) listUsers(c *gin.Context) {
	if _, ok := b.caller(c); !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	users := make([]todonet.User, 0, len(b.users))
	for _, u := range b.users {
		users = append(users, todonet.User{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	c.JSON(http.StatusOK, users)
}

// ---------------------------------------------------------------------
// todo-apps

func (b *Backend) listApps(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	apps := make([]gin.H, 0)
	for _, l := range b.lists {
		if b.roleOf(l.ID, callerID) == "" {
			continue
		}
		apps = append(apps, gin.H{"id": l.ID, "name": l.Name, "ownerId": l.OwnerID})
	}

	c.JSON(http.StatusOK, apps)
}

func (b *Backend) createApp(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	b.mu.Lock()
	l := &list{ID: b.id("l"), Name: body.Name, OwnerID: callerID}
	b.lists[l.ID] = l
	m := &membership{ID: b.id("m"), ListID: l.ID, UserID: callerID, Role: "OWNER"}
	b.memberships[m.ID] = m
	b.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": l.ID, "name": l.Name, "ownerId": l.OwnerID})
}

func (b *Backend) deleteApp(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lists[listID]
	if !ok || b.roleOf(listID, callerID) == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}
	if l.OwnerID != callerID {
		fail(c, http.StatusForbidden, "only the owner can delete a list")
		return
	}

	delete(b.lists, listID)
	for id, t := range b.tasks {
		if t.ListID == listID {
			delete(b.tasks, id)
		}
	}
	for id, m := range b.memberships {
		if m.ListID == listID {
			delete(b.memberships, id)
		}
	}

	c.Status(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// tasks

func (b *Backend) listTasks(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	role := b.roleOf(listID, callerID)
	if _, ok := b.lists[listID]; !ok || role == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}

	tasks := make([]todonet.Task, 0)
	for _, t := range b.tasks {
		if t.ListID != listID {
			continue
		}
		tasks = append(tasks, todonet.Task{
			ID:       t.ID,
			Title:    t.Title,
			Status:   t.Status,
			DueDate:  t.DueDate,
			Priority: t.Priority,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":  tasks,
		"access": gin.H{"role": role},
	})
}

func (b *Backend) createTask(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")

	var body struct {
		Title    string `json:"title"`
		Priority int    `json:"priority"`
		DueDate  string `json:"dueDate"`
	}
	if err := c.BindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	role := b.roleOf(listID, callerID)
	if _, ok := b.lists[listID]; !ok || role == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}
	if !canEdit(role) {
		fail(c, http.StatusForbidden, "editor role required")
		return
	}

	t := &task{
		ID:       b.id("t"),
		ListID:   listID,
		Title:    body.Title,
		Status:   todonet.StatusInProgress,
		DueDate:  body.DueDate,
		Priority: body.Priority,
	}
	b.tasks[t.ID] = t

	c.JSON(http.StatusCreated, todonet.Task{
		ID:       t.ID,
		Title:    t.Title,
		Status:   t.Status,
		DueDate:  t.DueDate,
		Priority: t.Priority,
	})
}

func (b *Backend) updateTask(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	taskID := c.Param("id")

	var body struct {
		Title    *string `json:"title"`
		DueDate  *string `json:"dueDate"`
		Priority *int    `json:"priority"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok || b.roleOf(t.ListID, callerID) == "" {
		fail(c, http.StatusNotFound, "task not found")
		return
	}
	if !canEdit(b.roleOf(t.ListID, callerID)) {
		fail(c, http.StatusForbidden, "editor role required")
		return
	}

	if body.Title != nil {
		t.Title = *body.Title
	}
	if body.DueDate != nil {
		t.DueDate = *body.DueDate
	}
	if body.Priority != nil {
		t.Priority = *body.Priority
	}

	c.Status(http.StatusOK)
}

func (b *Backend) updateTaskStatus(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	taskID := c.Param("id")

	var body struct {
		Status todonet.Status `json:"status"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Status != todonet.StatusInProgress && body.Status != todonet.StatusCompleted {
		fail(c, http.StatusBadRequest, "invalid status %q", body.Status)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok || b.roleOf(t.ListID, callerID) == "" {
		fail(c, http.StatusNotFound, "task not found")
		return
	}
	if !canEdit(b.roleOf(t.ListID, callerID)) {
		fail(c, http.StatusForbidden, "editor role required")
		return
	}

	t.Status = body.Status
	c.Status(http.StatusOK)
}

func (b *Backend) deleteTask(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	taskID := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok || b.roleOf(t.ListID, callerID) == "" {
		fail(c, http.StatusNotFound, "task not found")
		return
	}
	if b.roleOf(t.ListID, callerID) != "OWNER" {
		fail(c, http.StatusForbidden, "owner role required")
		return
	}

	delete(b.tasks, taskID)
	c.Status(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// memberships

func (b *Backend) listMemberships(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.lists[listID]; !ok || b.roleOf(listID, callerID) == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}

	records := make([]gin.H, 0)
	for _, m := range b.memberships {
		if m.ListID != listID {
			continue
		}
		u := b.users[m.UserID]
		records = append(records, gin.H{
			"id":   m.ID,
			"role": m.Role,
			"user": gin.H{"id": u.ID, "name": u.Name, "email": u.Email},
		})
	}

	c.JSON(http.StatusOK, records)
}

func (b *Backend) createMembership(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")

	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Role != "EDITOR" && body.Role != "VIEWER" {
		fail(c, http.StatusBadRequest, "role must be EDITOR or VIEWER, got %q", body.Role)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.lists[listID]; !ok || b.roleOf(listID, callerID) == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}
	if b.roleOf(listID, callerID) != "OWNER" {
		fail(c, http.StatusForbidden, "owner role required")
		return
	}

	var invited *user
	for _, u := range b.users {
		if u.Email == body.Email {
			invited = u
			break
		}
	}
	if invited == nil {
		fail(c, http.StatusNotFound, "no user found for email %s", body.Email)
		return
	}
	if b.roleOf(listID, invited.ID) != "" {
		fail(c, http.StatusBadRequest, "user is already a collaborator")
		return
	}

	m := &membership{ID: b.id("m"), ListID: listID, UserID: invited.ID, Role: body.Role}
	b.memberships[m.ID] = m

	c.JSON(http.StatusCreated, gin.H{"id": m.ID, "role": m.Role})
}

func (b *Backend) updateMembership(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")
	membershipID := c.Param("membershipID")

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Role != "EDITOR" && body.Role != "VIEWER" {
		fail(c, http.StatusBadRequest, "role must be EDITOR or VIEWER, got %q", body.Role)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.lists[listID]; !ok || b.roleOf(listID, callerID) == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}
	if b.roleOf(listID, callerID) != "OWNER" {
		fail(c, http.StatusForbidden, "owner role required")
		return
	}

	m, ok := b.memberships[membershipID]
	if !ok || m.ListID != listID {
		fail(c, http.StatusNotFound, "membership not found")
		return
	}
	if m.Role == "OWNER" {
		fail(c, http.StatusBadRequest, "cannot change the owner's role")
		return
	}

	m.Role = body.Role
	c.Status(http.StatusOK)
}

func (b *Backend) deleteMembership(c *gin.Context) {
	callerID, ok := b.caller(c)
	if !ok {
		return
	}

	listID := c.Param("id")
	membershipID := c.Param("membershipID")

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.lists[listID]; !ok || b.roleOf(listID, callerID) == "" {
		fail(c, http.StatusNotFound, "list not found")
		return
	}
	if b.roleOf(listID, callerID) != "OWNER" {
		fail(c, http.StatusForbidden, "owner role required")
		return
	}

	m, ok := b.memberships[membershipID]
	if !ok || m.ListID != listID {
		fail(c, http.StatusNotFound, "membership not found")
		return
	}
	if m.Role == "OWNER" {
		fail(c, http.StatusBadRequest, "cannot remove the owner")
		return
	}

	delete(b.memberships, membershipID)
	c.Status(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// missions (legacy surface)

func (b *Backend) addMission(c *gin.Context) {
	if _, ok := b.legacyCaller(c); !ok {
		return
	}

	var m todonet.Mission
	if err := c.BindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	id := b.id("mi")
	b.missions[id] = m
	b.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (b *Backend) updateMission(c *gin.Context) {
	if _, ok := b.legacyCaller(c); !ok {
		return
	}

	var m todonet.Mission
	if err := c.BindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	id := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.missions[id]; !ok {
		fail(c, http.StatusNotFound, "mission not found")
		return
	}
	b.missions[id] = m

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (b *Backend) deleteMission(c *gin.Context) {
	if _, ok := b.legacyCaller(c); !ok {
		return
	}

	id := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.missions[id]; !ok {
		fail(c, http.StatusNotFound, "mission not found")
		return
	}
	delete(b.missions, id)

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// ---------------------------------------------------------------------
// notifications

func (b *Backend) notifications(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, http.StatusBadRequest, "userId is required")
		return
	}

	conn, err := b.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc := &wsConn{conn: conn}
	b.mu.Lock()
	b.conns[userID] = append(b.conns[userID], wc)
	b.mu.Unlock()

	// Drain control frames until the peer goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		b.mu.Lock()
		conns := b.conns[userID]
		for i, other := range conns {
			if other == wc {
				b.conns[userID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		conn.Close()
	}()
}
