package controllers

import (
	"io"
	"mime/multipart"

	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter and answers 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into obj and runs its validate tags.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.StatusErrorResponse(c, utils.InvalidInputf("Cuerpo de la solicitud inválido"))
		return false
	}
	if err := utils.ValidateStruct(obj); err != nil {
		utils.StatusErrorResponse(c, &utils.ValidationError{
			Message:  "Datos inválidos",
			Detalles: utils.ValidationDetails(err),
		})
		return false
	}
	return true
}

// bindMap decodes a free-form JSON object.
func bindMap(c *gin.Context) (map[string]interface{}, bool) {
	var datos map[string]interface{}
	if err := c.ShouldBindJSON(&datos); err != nil || datos == nil {
		utils.StatusErrorResponse(c, utils.InvalidInputf("Cuerpo de la solicitud inválido"))
		return nil, false
	}
	return datos, true
}

// formFile reads a multipart file field fully into memory. An absent or empty
// file answers 400.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, []byte, bool) {
	header, err := c.FormFile(field)
	if err != nil || header.Filename == "" {
		utils.StatusErrorResponse(c, utils.InvalidInputf("No se envió ningún archivo"))
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return nil, nil, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return nil, nil, false
	}
	if len(content) == 0 {
		utils.StatusErrorResponse(c, utils.InvalidInputf("El archivo está vacío"))
		return nil, nil, false
	}
	return header, content, true
}
