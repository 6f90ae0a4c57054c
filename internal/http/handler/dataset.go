package handler

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"tabgate/internal/service"
	"tabgate/internal/tabular"
)

type analyzeRequest struct {
	Filepath     string `json:"filepath"`
	AnalysisType string `json:"analysisType"`
}

type cleanRequest struct {
	Filepath       string   `json:"filepath"`
	CleaningMethod string   `json:"cleaningMethod"`
	Columns        []string `json:"columns"`
}

type trainRequest struct {
	Filepath  string   `json:"filepath"`
	ModelType string   `json:"modelType"`
	Features  []string `json:"features"`
	Target    string   `json:"target"`
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("INVALID_BODY", "Request body must be a JSON object")
	}
	return nil
}

// UploadDataset stores a multipart dataset and reports its shape.
//
//	@Summary	Upload a CSV or Excel dataset
//	@Tags		datasets
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"dataset (.csv, .xlsx, .xls)"
//	@Success	200		{object}	model.UploadResult
//	@Failure	400		{object}	errorPayload
//	@Failure	413		{object}	errorPayload
//	@Router		/api/upload [post]
func UploadDataset(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return badRequest("FILE_REQUIRED", "No file uploaded")
		}
		if _, err := tabular.DetectFormat(fh.Filename); err != nil {
			return badRequest("UNSUPPORTED_FORMAT", "Only CSV and Excel files are allowed")
		}

		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		res, err := svc.Upload(c.UserContext(), f, fh.Filename)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// AnalyzeDataset re-parses a stored dataset and returns the engine's analysis.
//
//	@Summary	Analyze a stored dataset
//	@Tags		datasets
//	@Accept		json
//	@Produce	json
//	@Param		body	body		analyzeRequest	true	"stored file path and analysis type"
//	@Success	200		{object}	model.AnalysisEnvelope
//	@Failure	400		{object}	errorPayload
//	@Failure	504		{object}	errorPayload
//	@Router		/api/analyze [post]
func AnalyzeDataset(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analyzeRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}

		res, err := svc.Analyze(c.UserContext(), req.Filepath, req.AnalysisType)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// CleanDataset asks the engine to clean a stored dataset in place.
//
//	@Summary	Clean a stored dataset
//	@Tags		datasets
//	@Accept		json
//	@Produce	json
//	@Param		body	body		cleanRequest	true	"stored file path and cleaning method"
//	@Success	200		{object}	model.CleaningResult
//	@Failure	400		{object}	errorPayload
//	@Failure	504		{object}	errorPayload
//	@Router		/api/clean [post]
func CleanDataset(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cleanRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}

		res, err := svc.Clean(c.UserContext(), service.CleanInput{
			Filepath:       req.Filepath,
			CleaningMethod: req.CleaningMethod,
			Columns:        req.Columns,
		})
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// DownloadCleaned pipes the engine's cleaned file to the caller without buffering it.
//
//	@Summary	Download a cleaned dataset
//	@Tags		datasets
//	@Produce	octet-stream
//	@Param		filepath	query	string	true	"stored file path"
//	@Success	200
//	@Failure	400	{object}	errorPayload
//	@Router		/api/clean/download [get]
func DownloadCleaned(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Query("filepath")
		dl, err := svc.Download(c.UserContext(), path)
		if err != nil {
			return err
		}

		if dl.ContentType != "" {
			c.Set(fiber.HeaderContentType, dl.ContentType)
		} else {
			c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		}
		if dl.ContentDisposition != "" {
			c.Set(fiber.HeaderContentDisposition, dl.ContentDisposition)
		} else {
			c.Attachment(filepath.Base(path))
		}

		size := -1
		if dl.ContentLength >= 0 {
			size = int(dl.ContentLength)
		}
		// fasthttp closes the body once it has been streamed.
		return c.SendStream(dl.Body, size)
	}
}

// TrainModel validates a training request and returns the engine's report.
//
//	@Summary	Train a model on a stored dataset
//	@Tags		models
//	@Accept		json
//	@Produce	json
//	@Param		body	body		trainRequest	true	"stored file path, model type, features and target"
//	@Success	200		{object}	model.TrainingResult
//	@Failure	400		{object}	errorPayload
//	@Failure	504		{object}	errorPayload
//	@Router		/api/train [post]
func TrainModel(svc service.TrainingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req trainRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}

		res, err := svc.Train(c.UserContext(), service.TrainInput{
			Filepath:  req.Filepath,
			ModelType: req.ModelType,
			Features:  req.Features,
			Target:    req.Target,
		})
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
