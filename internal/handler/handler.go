package handler

import (
	"net/http"
	"strconv"

	"campfire/internal/pkg"

	"github.com/gin-gonic/gin"
)

// pathID 路径里的数字 ID，解析失败直接回 400
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		pkg.Respond(c, http.StatusBadRequest, "Invalid id", nil)
		return 0, false
	}
	return id, true
}
