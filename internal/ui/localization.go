package ui

// Package ui provides user interface components

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle                = "app_title"
	KeyGenerate                = "generate"
	KeySettings                = "settings"
	KeyFile                    = "file"
	KeyLanguage                = "language"
	KeyEnterPrompt             = "enter_prompt"
	KeyPleaseEnterPrompt       = "please_enter_prompt"
	KeyAlreadyRunning          = "already_running"
	KeyUnexpectedError         = "unexpected_error"
	KeyReady                   = "ready"
	KeyTabFrames               = "tab_frames"
	KeyTabOutput               = "tab_output"
	KeyFramePending            = "frame_pending"
	KeyNoAnimation             = "no_animation"
	KeyDownload                = "download"
	KeySaveToFolder            = "save_to_folder"
	KeyReveal                  = "reveal"
	KeyOpen                    = "open"
	KeyExportMP4               = "export_mp4"
	KeyStopExport              = "stop_export"
	KeyExportStopped           = "export_stopped"
	KeySavedTo                 = "saved_to"
	KeySaveFailed              = "save_failed"
	KeyExportStarted           = "export_started"
	KeyExportCompleted         = "export_completed"
	KeyExportFailed            = "export_failed"
	KeyFFmpegMissing           = "ffmpeg_missing"
	KeyErrorOpeningFile        = "error_opening_file"
	KeySave                    = "save"
	KeyCancel                  = "cancel"
	KeyBrowse                  = "browse"
	KeySettingsSaved           = "settings_saved"
	KeyInstructions            = "instructions"
	KeyOrchestratorInstruction = "orchestrator_instruction"
	KeyFrameInstruction        = "frame_instruction"
	KeyPlaceholderHint         = "placeholder_hint"
	KeyResetTemplates          = "reset_templates"
	KeyImportPreset            = "import_preset"
	KeyExportPreset            = "export_preset"
	KeyPresetImported          = "preset_imported"
	KeyPresetExported          = "preset_exported"
	KeyInvalidPreset           = "invalid_preset"
	KeyGeneration              = "generation"
	KeyModel                   = "model"
	KeyBackend                 = "backend"
	KeyAPIKey                  = "api_key"
	KeyAPIKeyFromEnv           = "api_key_from_env"
	KeyVertexProject           = "vertex_project"
	KeyVertexLocation          = "vertex_location"
	KeyTextModel               = "text_model"
	KeyImageModel              = "image_model"
	KeyFrameCount              = "frame_count"
	KeyFPS                     = "fps"
	KeyCanvasSize              = "canvas_size"
	KeyMaxAttempts             = "max_attempts"
	KeyTemperature             = "temperature"
	KeyImagesPerMinute         = "images_per_minute"
	KeyOutputFormat            = "output_format"
	KeyOutputDirectory         = "output_directory"
	KeyAutoReveal              = "auto_reveal"
	KeyInterface               = "interface"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:                "Magic Animator",
		KeyGenerate:                "Generate",
		KeySettings:                "Settings",
		KeyFile:                    "File",
		KeyLanguage:                "Language",
		KeyEnterPrompt:             "Describe an animation, e.g. a seed sprouting into a flower",
		KeyPleaseEnterPrompt:       "Please enter a prompt",
		KeyAlreadyRunning:          "A generation is already running",
		KeyUnexpectedError:         "Unexpected error",
		KeyReady:                   "Ready",
		KeyTabFrames:               "Frames",
		KeyTabOutput:               "Output",
		KeyFramePending:            "Frame %d",
		KeyNoAnimation:             "No animation yet",
		KeyDownload:                "Download",
		KeySaveToFolder:            "Save to folder",
		KeyReveal:                  "Show in folder",
		KeyOpen:                    "Open",
		KeyExportMP4:               "Export MP4",
		KeyStopExport:              "Stop export",
		KeyExportStopped:           "Video export stopped",
		KeySavedTo:                 "Saved to",
		KeySaveFailed:              "Could not save the animation",
		KeyExportStarted:           "Video export started",
		KeyExportCompleted:         "Video export completed",
		KeyExportFailed:            "Video export failed",
		KeyFFmpegMissing:           "ffmpeg was not found on PATH",
		KeyErrorOpeningFile:        "Error opening file",
		KeySave:                    "Save",
		KeyCancel:                  "Cancel",
		KeyBrowse:                  "Browse",
		KeySettingsSaved:           "Settings saved successfully!",
		KeyInstructions:            "Instructions",
		KeyOrchestratorInstruction: "Prompt expansion instruction",
		KeyFrameInstruction:        "Frame instruction",
		KeyPlaceholderHint:         "Placeholders: {prompt}, {frame}, {total}",
		KeyResetTemplates:          "Reset to defaults",
		KeyImportPreset:            "Import preset",
		KeyExportPreset:            "Export preset",
		KeyPresetImported:          "Preset imported",
		KeyPresetExported:          "Preset exported",
		KeyInvalidPreset:           "Invalid preset",
		KeyGeneration:              "Generation",
		KeyModel:                   "Model",
		KeyBackend:                 "Backend",
		KeyAPIKey:                  "API key",
		KeyAPIKeyFromEnv:           "Using the API key from the environment",
		KeyVertexProject:           "Vertex AI project",
		KeyVertexLocation:          "Vertex AI location",
		KeyTextModel:               "Text model",
		KeyImageModel:              "Image model",
		KeyFrameCount:              "Frames",
		KeyFPS:                     "Frames per second",
		KeyCanvasSize:              "Canvas size",
		KeyMaxAttempts:             "Attempts",
		KeyTemperature:             "Creativity (temperature)",
		KeyImagesPerMinute:         "Images per minute (0 = unlimited)",
		KeyOutputFormat:            "Format",
		KeyOutputDirectory:         "Output directory",
		KeyAutoReveal:              "Show saved files in folder",
		KeyInterface:               "Interface",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:                "Волшебный аниматор",
		KeyGenerate:                "Создать",
		KeySettings:                "Настройки",
		KeyFile:                    "Файл",
		KeyLanguage:                "Язык",
		KeyEnterPrompt:             "Опишите анимацию, например: семя прорастает в цветок",
		KeyPleaseEnterPrompt:       "Пожалуйста, введите описание",
		KeyAlreadyRunning:          "Генерация уже выполняется",
		KeyUnexpectedError:         "Непредвиденная ошибка",
		KeyReady:                   "Готово",
		KeyTabFrames:               "Кадры",
		KeyTabOutput:               "Результат",
		KeyFramePending:            "Кадр %d",
		KeyNoAnimation:             "Анимации пока нет",
		KeyDownload:                "Скачать",
		KeySaveToFolder:            "Сохранить в папку",
		KeyReveal:                  "Показать в папке",
		KeyOpen:                    "Открыть",
		KeyExportMP4:               "Экспорт MP4",
		KeyStopExport:              "Остановить экспорт",
		KeyExportStopped:           "Экспорт видео остановлен",
		KeySavedTo:                 "Сохранено в",
		KeySaveFailed:              "Не удалось сохранить анимацию",
		KeyExportStarted:           "Экспорт видео начат",
		KeyExportCompleted:         "Экспорт видео завершён",
		KeyExportFailed:            "Ошибка экспорта видео",
		KeyFFmpegMissing:           "ffmpeg не найден в PATH",
		KeyErrorOpeningFile:        "Ошибка открытия файла",
		KeySave:                    "Сохранить",
		KeyCancel:                  "Отмена",
		KeyBrowse:                  "Обзор",
		KeySettingsSaved:           "Настройки успешно сохранены!",
		KeyInstructions:            "Инструкции",
		KeyOrchestratorInstruction: "Инструкция расширения описания",
		KeyFrameInstruction:        "Инструкция для кадра",
		KeyPlaceholderHint:         "Подстановки: {prompt}, {frame}, {total}",
		KeyResetTemplates:          "Сбросить",
		KeyImportPreset:            "Импорт пресета",
		KeyExportPreset:            "Экспорт пресета",
		KeyPresetImported:          "Пресет импортирован",
		KeyPresetExported:          "Пресет экспортирован",
		KeyInvalidPreset:           "Неверный пресет",
		KeyGeneration:              "Генерация",
		KeyModel:                   "Модель",
		KeyBackend:                 "Сервис",
		KeyAPIKey:                  "Ключ API",
		KeyAPIKeyFromEnv:           "Используется ключ API из окружения",
		KeyVertexProject:           "Проект Vertex AI",
		KeyVertexLocation:          "Регион Vertex AI",
		KeyTextModel:               "Текстовая модель",
		KeyImageModel:              "Модель изображений",
		KeyFrameCount:              "Кадров",
		KeyFPS:                     "Кадров в секунду",
		KeyCanvasSize:              "Размер холста",
		KeyMaxAttempts:             "Попыток",
		KeyTemperature:             "Креативность (температура)",
		KeyImagesPerMinute:         "Изображений в минуту (0 = без ограничений)",
		KeyOutputFormat:            "Формат",
		KeyOutputDirectory:         "Папка сохранения",
		KeyAutoReveal:              "Показывать сохранённые файлы в папке",
		KeyInterface:               "Интерфейс",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:                "Animador Mágico",
		KeyGenerate:                "Gerar",
		KeySettings:                "Configurações",
		KeyFile:                    "Arquivo",
		KeyLanguage:                "Idioma",
		KeyEnterPrompt:             "Descreva uma animação, ex.: uma semente brotando em uma flor",
		KeyPleaseEnterPrompt:       "Por favor, digite uma descrição",
		KeyAlreadyRunning:          "Uma geração já está em andamento",
		KeyUnexpectedError:         "Erro inesperado",
		KeyReady:                   "Pronto",
		KeyTabFrames:               "Quadros",
		KeyTabOutput:               "Resultado",
		KeyFramePending:            "Quadro %d",
		KeyNoAnimation:             "Nenhuma animação ainda",
		KeyDownload:                "Baixar",
		KeySaveToFolder:            "Salvar na pasta",
		KeyReveal:                  "Mostrar na pasta",
		KeyOpen:                    "Abrir",
		KeyExportMP4:               "Exportar MP4",
		KeyStopExport:              "Parar exportação",
		KeyExportStopped:           "Exportação de vídeo interrompida",
		KeySavedTo:                 "Salvo em",
		KeySaveFailed:              "Não foi possível salvar a animação",
		KeyExportStarted:           "Exportação de vídeo iniciada",
		KeyExportCompleted:         "Exportação de vídeo concluída",
		KeyExportFailed:            "Falha na exportação de vídeo",
		KeyFFmpegMissing:           "ffmpeg não encontrado no PATH",
		KeyErrorOpeningFile:        "Erro ao abrir arquivo",
		KeySave:                    "Salvar",
		KeyCancel:                  "Cancelar",
		KeyBrowse:                  "Navegar",
		KeySettingsSaved:           "Configurações salvas com sucesso!",
		KeyInstructions:            "Instruções",
		KeyOrchestratorInstruction: "Instrução de expansão do prompt",
		KeyFrameInstruction:        "Instrução por quadro",
		KeyPlaceholderHint:         "Marcadores: {prompt}, {frame}, {total}",
		KeyResetTemplates:          "Restaurar padrões",
		KeyImportPreset:            "Importar predefinição",
		KeyExportPreset:            "Exportar predefinição",
		KeyPresetImported:          "Predefinição importada",
		KeyPresetExported:          "Predefinição exportada",
		KeyInvalidPreset:           "Predefinição inválida",
		KeyGeneration:              "Geração",
		KeyModel:                   "Modelo",
		KeyBackend:                 "Serviço",
		KeyAPIKey:                  "Chave de API",
		KeyAPIKeyFromEnv:           "Usando a chave de API do ambiente",
		KeyVertexProject:           "Projeto Vertex AI",
		KeyVertexLocation:          "Região Vertex AI",
		KeyTextModel:               "Modelo de texto",
		KeyImageModel:              "Modelo de imagem",
		KeyFrameCount:              "Quadros",
		KeyFPS:                     "Quadros por segundo",
		KeyCanvasSize:              "Tamanho da tela",
		KeyMaxAttempts:             "Tentativas",
		KeyTemperature:             "Criatividade (temperatura)",
		KeyImagesPerMinute:         "Imagens por minuto (0 = ilimitado)",
		KeyOutputFormat:            "Formato",
		KeyOutputDirectory:         "Diretório de saída",
		KeyAutoReveal:              "Mostrar arquivos salvos na pasta",
		KeyInterface:               "Interface",
	}
}
