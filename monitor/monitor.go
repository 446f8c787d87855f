// Package monitor exposes the server log to administrators.
package monitor

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultTailBytes is how much of the log is returned when no size is given.
const DefaultTailBytes = 64 << 10

// LogsHandler serves the last bytes of the log file at path as plain text.
// The "bytes" query parameter overrides the size, capped at max.
func LogsHandler(path string, max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := int64(DefaultTailBytes)
		if v, err := strconv.ParseInt(c.Query("bytes"), 10, 64); err == nil && v > 0 {
			n = v
		}
		if n > max {
			n = max
		}

		data, err := Tail(path, n)
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Log file not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
	}
}

// Tail returns at most the last n bytes of the file at path.
func Tail(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - n
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
