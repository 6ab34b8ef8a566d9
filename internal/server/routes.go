package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pbittencourt/herald/internal/broadcast"
	"github.com/pbittencourt/herald/internal/gateway/bridge"
	"github.com/pbittencourt/herald/internal/lists"
)

// registerRoutes sets up the dashboard page and the /api surface.
func registerRoutes(router *gin.Engine, opts Opts) {
	router.GET("/", handleIndex(opts))

	api := router.Group("/api")
	api.GET("/status", handleStatus(opts))
	api.GET("/rooms", handleRooms(opts))

	api.GET("/lists", handleListAll(opts))
	api.POST("/lists", handleListCreate(opts))
	api.PUT("/lists/:id", handleListRename(opts))
	api.DELETE("/lists/:id", handleListDelete(opts))

	api.GET("/lists/:id/groups", handleGroupsForList(opts))
	api.POST("/lists/:id/groups", handleGroupAdd(opts))
	api.DELETE("/groups/:id", handleGroupRemove(opts))

	api.POST("/broadcast", handleBroadcast(opts))
	api.GET("/history", handleHistory(opts))

	api.POST("/reset-session", handleResetSession(opts))
}

func handleIndex(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", opts.Machine.Snapshot())
	}
}

func handleStatus(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := opts.Machine.Snapshot()
		var qr any
		if snap.PairingCode != "" {
			qr = snap.PairingCode
		}
		c.JSON(http.StatusOK, gin.H{
			"connected":      snap.Connected,
			"authenticating": snap.Authenticating,
			"qr":             qr,
		})
	}
}

func handleRooms(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !opts.Machine.Snapshot().Connected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client not connected"})
			return
		}
		rooms, err := opts.Gateway.FetchRooms(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rooms)
	}
}

func handleListAll(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := lists.All(opts.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

type nameBody struct {
	Name string `json:"name"`
}

func handleListCreate(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body nameBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		list, err := lists.Create(opts.DB, body.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func handleListRename(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var body nameBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		list, err := lists.Rename(opts.DB, id, body.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func handleListDelete(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := lists.Delete(opts.DB, id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func handleGroupsForList(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		groups, err := lists.Groups(opts.DB, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}

type groupBody struct {
	ExternalRoomID string `json:"externalRoomId"`
	Name           string `json:"name"`
}

func handleGroupAdd(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var body groupBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if _, err := lists.AddGroup(opts.DB, id, body.ExternalRoomID, body.Name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func handleGroupRemove(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := lists.RemoveGroup(opts.DB, id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type broadcastBody struct {
	ListID  uint   `json:"listId"`
	Message string `json:"message"`
}

func handleBroadcast(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !opts.Machine.Snapshot().Connected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client not connected"})
			return
		}
		var body broadcastBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := opts.Dispatcher.Broadcast(c.Request.Context(), body.ListID, body.Message, "Web UI")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handleHistory(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := broadcast.History(opts.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func handleResetSession(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Warn().Msg("manual session reset triggered")
		if err := bridge.Reset(opts.CredentialsDir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "session wiped; restarting"})
		go opts.Exit()
	}
}

// paramID parses the :id route parameter, answering 400 itself on failure.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
