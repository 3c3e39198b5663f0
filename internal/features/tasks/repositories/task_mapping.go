package tasks_repositories

import (
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	"taskflow/internal/storage"
)

func taskToDocument(task *tasks_models.Task) storage.Document {
	return storage.Document{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"projectId":   task.ProjectID,
		"assignedTo":  task.AssignedTo,
		"dueDate":     task.DueDate,
		"voiceNote":   VoiceNoteToValue(task.VoiceNote),
		"attachments": AttachmentsToValue(task.Attachments),
		"createdBy":   task.CreatedBy,
		"createdAt":   task.CreatedAt,
		"updatedAt":   task.UpdatedAt,
	}
}

func taskFromDocument(doc storage.Document) *tasks_models.Task {
	task := &tasks_models.Task{
		ID:          doc.ID(),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		Status:      tasks_enums.TaskStatus(doc.String("status")),
		ProjectID:   doc.OptionalString("projectId"),
		AssignedTo:  doc.OptionalString("assignedTo"),
		DueDate:     doc.OptionalTime("dueDate"),
		Attachments: make([]tasks_models.Attachment, 0),
		CreatedBy:   doc.String("createdBy"),
		CreatedAt:   doc.Time("createdAt"),
		UpdatedAt:   doc.Time("updatedAt"),
	}

	if voiceNote := doc.Map("voiceNote"); voiceNote != nil {
		note := storage.Document(voiceNote)
		task.VoiceNote = &tasks_models.VoiceNote{
			URI:       note.String("uri"),
			Duration:  note.Float("duration"),
			FileName:  note.String("fileName"),
			CreatedAt: note.OptionalTime("createdAt"),
		}
	}

	for _, raw := range doc.Maps("attachments") {
		attachment := storage.Document(raw)
		task.Attachments = append(task.Attachments, tasks_models.Attachment{
			URI:  attachment.String("uri"),
			Name: attachment.String("name"),
			Type: attachment.String("type"),
		})
	}

	return task
}

// VoiceNoteToValue converts a voice note into its stored map shape, nil
// when absent.
func VoiceNoteToValue(voiceNote *tasks_models.VoiceNote) any {
	if voiceNote == nil {
		return nil
	}

	return map[string]any{
		"uri":       voiceNote.URI,
		"duration":  voiceNote.Duration,
		"fileName":  voiceNote.FileName,
		"createdAt": voiceNote.CreatedAt,
	}
}

func AttachmentsToValue(attachments []tasks_models.Attachment) []any {
	values := make([]any, 0, len(attachments))
	for _, attachment := range attachments {
		values = append(values, map[string]any{
			"uri":  attachment.URI,
			"name": attachment.Name,
			"type": attachment.Type,
		})
	}

	return values
}
