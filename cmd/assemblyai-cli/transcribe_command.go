package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"assemblyai-cli/internal/assemblyai"
	"assemblyai-cli/internal/config"
	"assemblyai-cli/internal/media"
	"assemblyai-cli/internal/orchestrator"
	"assemblyai-cli/internal/output"
	"assemblyai-cli/internal/transcript"
)

const transcribeLongHelp = `Submits an audio or video file (or an http(s) media URL) to AssemblyAI,
waits for processing to finish, and writes the transcript to stdout or
--output.

Supported audio: .mp3 .wav .flac .m4a .ogg
Supported video: .mp4 .avi .mov .mkv .webm (audio is extracted with ffmpeg,
which must be on PATH)

--format selects plain text, srt, or vtt captions. --speaker-labels enables
diarization; captions and text are then grouped per speaker.`

type transcribeFlags struct {
	apiKey              string
	baseURL             string
	format              string
	outputPath          string
	speechModel         string
	language            string
	languageDetection   bool
	punctuate           bool
	formatText          bool
	disfluencies        bool
	filterProfanity     bool
	speakerLabels       bool
	multichannel        bool
	speechThreshold     float64
	charsPerCaption     int
	pollIntervalSeconds int
	timeoutSeconds      int
	wordBoost           []string
	customSpelling      []string
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	flags := &transcribeFlags{}

	cmd := &cobra.Command{
		Use:   "transcribe <media>",
		Short: "Transcribe a media file or URL",
		Long:  transcribeLongHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, ctx, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "AssemblyAI API key (overrides env and config file)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "API base URL")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text, srt, or vtt")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Write the transcript to this file instead of stdout")
	cmd.Flags().StringVar(&flags.speechModel, "speech-model", "", "Speech model: best or nano")
	cmd.Flags().StringVar(&flags.language, "language", "", "Language code (disables auto-detection unless --language-detection is set)")
	cmd.Flags().BoolVar(&flags.languageDetection, "language-detection", false, "Automatically detect the spoken language")
	cmd.Flags().BoolVar(&flags.punctuate, "punctuate", false, "Add punctuation to the transcript")
	cmd.Flags().BoolVar(&flags.formatText, "format-text", false, "Format casing and numbers in the transcript")
	cmd.Flags().BoolVar(&flags.disfluencies, "disfluencies", false, "Keep filler words (um, uh)")
	cmd.Flags().BoolVar(&flags.filterProfanity, "filter-profanity", false, "Replace profanity with asterisks")
	cmd.Flags().BoolVar(&flags.speakerLabels, "speaker-labels", false, "Label speakers (diarization)")
	cmd.Flags().BoolVar(&flags.multichannel, "multichannel", false, "Transcribe each audio channel separately")
	cmd.Flags().Float64Var(&flags.speechThreshold, "speech-threshold", 0, "Reject audio with less than this fraction of speech (0.0-1.0)")
	cmd.Flags().IntVar(&flags.charsPerCaption, "chars-per-caption", 0, "Character budget per srt/vtt caption")
	cmd.Flags().IntVar(&flags.pollIntervalSeconds, "poll-interval-seconds", 0, "Seconds between status polls")
	cmd.Flags().IntVar(&flags.timeoutSeconds, "timeout-seconds", 0, "Overall wall-clock budget in seconds")
	cmd.Flags().StringSliceVar(&flags.wordBoost, "word-boost", nil, "Words or phrases to boost recognition for (repeatable)")
	cmd.Flags().StringSliceVar(&flags.customSpelling, "custom-spelling", nil, "Exact-token replacement as from=to (repeatable)")

	return cmd
}

func runTranscribe(cmd *cobra.Command, ctx *commandContext, mediaPath string, flags *transcribeFlags) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	fileCfg, _, err := config.Load()
	if err != nil {
		return err
	}

	overrides, err := flags.overrides(cmd.Flags())
	if err != nil {
		return err
	}

	req, err := config.Resolve(overrides, fileCfg, os.Getenv)
	if err != nil {
		return err
	}
	req.MediaPath = mediaPath

	// The extension gate runs before key resolution is consulted, so a bad
	// input fails the same way with or without credentials.
	if err := media.CheckPath(mediaPath); err != nil {
		return err
	}
	if err := req.EnsureAPIKey(); err != nil {
		return err
	}

	preparer := media.NewPreparer("")
	mediaRef, cleanup, err := preparer.Prepare(cmd.Context(), mediaPath)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := assemblyai.New(req.APIKey, req.BaseURL)
	if err != nil {
		return err
	}

	result, err := orchestrator.New(client, logger).Run(cmd.Context(), req, mediaRef)
	if err != nil {
		return err
	}

	rendered, err := transcript.Render(result, req.Format, req.CharsPerCaption, req.CustomSpelling)
	if err != nil {
		return err
	}

	return output.NewWriter(cmd.OutOrStdout()).Write(req.Output, rendered)
}

// overrides converts explicitly-set flags into resolution overrides; flags
// the user did not pass stay nil so file and default values apply.
func (f *transcribeFlags) overrides(flagSet *pflag.FlagSet) (config.Overrides, error) {
	var o config.Overrides

	if flagSet.Changed("api-key") {
		o.APIKey = &f.apiKey
	}
	if flagSet.Changed("base-url") {
		o.BaseURL = &f.baseURL
	}
	if flagSet.Changed("format") {
		o.Format = &f.format
	}
	if flagSet.Changed("output") {
		o.Output = &f.outputPath
	}
	if flagSet.Changed("speech-model") {
		o.SpeechModel = &f.speechModel
	}
	if flagSet.Changed("language") {
		o.Language = &f.language
	}
	if flagSet.Changed("language-detection") {
		o.LanguageDetection = &f.languageDetection
	}
	if flagSet.Changed("punctuate") {
		o.Punctuate = &f.punctuate
	}
	if flagSet.Changed("format-text") {
		o.FormatText = &f.formatText
	}
	if flagSet.Changed("disfluencies") {
		o.Disfluencies = &f.disfluencies
	}
	if flagSet.Changed("filter-profanity") {
		o.FilterProfanity = &f.filterProfanity
	}
	if flagSet.Changed("speaker-labels") {
		o.SpeakerLabels = &f.speakerLabels
	}
	if flagSet.Changed("multichannel") {
		o.Multichannel = &f.multichannel
	}
	if flagSet.Changed("speech-threshold") {
		o.SpeechThreshold = &f.speechThreshold
	}
	if flagSet.Changed("chars-per-caption") {
		o.CharsPerCaption = &f.charsPerCaption
	}
	if flagSet.Changed("poll-interval-seconds") {
		o.PollIntervalSeconds = &f.pollIntervalSeconds
	}
	if flagSet.Changed("timeout-seconds") {
		o.TimeoutSeconds = &f.timeoutSeconds
	}
	if flagSet.Changed("word-boost") {
		o.WordBoost = f.wordBoost
	}
	if flagSet.Changed("custom-spelling") {
		rules, err := parseSpellingFlags(f.customSpelling)
		if err != nil {
			return config.Overrides{}, err
		}
		o.CustomSpelling = rules
	}

	return o, nil
}

func parseSpellingFlags(entries []string) ([]transcript.SpellingRule, error) {
	rules := make([]transcript.SpellingRule, 0, len(entries))
	for _, entry := range entries {
		from, to, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, &config.ValueError{Msg: fmt.Sprintf("invalid custom spelling entry %q: expected from=to", entry)}
		}
		rules = append(rules, transcript.SpellingRule{From: from, To: to})
	}
	return rules, nil
}
