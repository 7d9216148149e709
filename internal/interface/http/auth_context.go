package http

import (
	"github.com/gin-gonic/gin"
)

const writerSubjectKey = "writer_subject"

func setWriterSubject(c *gin.Context, subject string) {
	c.Set(writerSubjectKey, subject)
}

func writerSubject(c *gin.Context) string {
	return c.GetString(writerSubjectKey)
}
