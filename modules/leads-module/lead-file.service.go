package leads_module

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/commons/metrics"
	"solarhub/commons/response"
	"solarhub/database/entities"
)

const (
	SOURCE_IMPORT = "import"
	batchSize     = 500
)

var (
	ErrLeadFileNotFound   = response.NotFound("Lead file not found")
	ErrInvalidFileName    = response.BadRequest("File name must end in .csv or .csv.tar.gz")
	ErrImportInProgress   = response.NewHTTPError(http.StatusConflict, "Lead file import already running", nil)
	ErrAlreadyImported    = response.NewHTTPError(http.StatusConflict, "Lead file already imported", nil)
	ErrMissingPhoneColumn = errors.New("csv has no phone column")
)

// FileServer is where lead files are published.
type FileServer struct {
	URL      string
	Username string
	Password string
}

// Analysis is what a lead CSV holds once blank phones are dropped.
type Analysis struct {
	TotalRows  int
	Phones     []string
	Duplicates map[string]int
	// Domains maps phone to every domain it was collected from.
	Domains map[string][]string
}

type LeadFileService struct {
	db         *gorm.DB
	client     *http.Client
	server     FileServer
	storageDir string
}

func NewLeadFileService(db *gorm.DB, client *http.Client, server FileServer, storageDir string) *LeadFileService {
	if client == nil {
		client = http.DefaultClient
	}
	return &LeadFileService{db: db, client: client, server: server, storageDir: storageDir}
}

func (s *LeadFileService) Register(ctx context.Context, fileName string) (entities.LeadFileHistory, error) {
	fileName = strings.TrimSpace(fileName)
	if filepath.Base(fileName) != fileName || !(strings.HasSuffix(fileName, ".csv") || strings.HasSuffix(fileName, ".csv.tar.gz")) {
		return entities.LeadFileHistory{}, ErrInvalidFileName
	}
	file := entities.LeadFileHistory{FileName: fileName, Status: enums.PENDING}
	if err := s.db.WithContext(ctx).Create(&file).Error; err != nil {
		return file, fmt.Errorf("register lead file: %w", err)
	}
	return file, nil
}

func (s *LeadFileService) Get(ctx context.Context, id uint) (entities.LeadFileHistory, error) {
	var file entities.LeadFileHistory
	err := s.db.WithContext(ctx).First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return file, ErrLeadFileNotFound
	}
	if err != nil {
		return file, fmt.Errorf("load lead file %d: %w", id, err)
	}
	return file, nil
}

func (s *LeadFileService) List(ctx context.Context) ([]entities.LeadFileHistory, error) {
	var files []entities.LeadFileHistory
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list lead files: %w", err)
	}
	return files, nil
}

func (s *LeadFileService) Duplicates(ctx context.Context, id uint) ([]entities.LeadPhoneDuplicateHistory, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var rows []entities.LeadPhoneDuplicateHistory
	if err := s.db.WithContext(ctx).Where("file_name = ?", file.FileName).
		Order("duplicate_count desc").Order("phone asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list duplicates: %w", err)
	}
	return rows, nil
}

// Import downloads the file, analyses it and stores its leads. The file history records how
// far it got.
func (s *LeadFileService) Import(ctx context.Context, id uint) (entities.LeadFileHistory, error) {
	log := logger.FromContext(ctx).With(zap.Uint("leadFileId", id))

	file, err := s.Get(ctx, id)
	if err != nil {
		return file, err
	}
	switch file.Status {
	case enums.DOWNLOADING, enums.IMPORTING:
		return file, ErrImportInProgress
	case enums.IMPORTED:
		return file, ErrAlreadyImported
	}

	workDir := filepath.Join(s.storageDir, fmt.Sprintf("lead-file-%d", file.ID))
	defer cleanupFolder(ctx, workDir)

	s.updateFileHistoryStatus(ctx, file.ID, enums.DOWNLOADING, nil)
	archive, err := s.download(ctx, file.FileName, workDir)
	if err != nil {
		log.Error("lead file download failed", zap.String("file", file.FileName), zap.Error(err))
		s.updateFileHistoryStatus(ctx, file.ID, enums.DOWNLOAD_FAILED, err)
		return s.reload(ctx, file, err)
	}

	s.updateFileHistoryStatus(ctx, file.ID, enums.IMPORTING, nil)
	imported, err := s.importArchive(ctx, file, archive, workDir)
	if err != nil {
		log.Error("lead file import failed", zap.String("file", file.FileName), zap.Error(err))
		s.updateFileHistoryStatus(ctx, file.ID, enums.IMPORT_FAILED, err)
		return s.reload(ctx, file, err)
	}

	metrics.RecordLeadsImported(imported)
	log.Info("lead file imported", zap.String("file", file.FileName), zap.Int("leads", imported))
	return s.Get(ctx, file.ID)
}

func (s *LeadFileService) reload(ctx context.Context, file entities.LeadFileHistory, cause error) (entities.LeadFileHistory, error) {
	if fresh, err := s.Get(ctx, file.ID); err == nil {
		file = fresh
	}
	return file, cause
}

func (s *LeadFileService) importArchive(ctx context.Context, file entities.LeadFileHistory, archive, workDir string) (int, error) {
	csvFiles := []string{archive}
	if strings.HasSuffix(archive, ".tar.gz") {
		extracted, err := extractTarGz(ctx, archive, workDir)
		if err != nil {
			return 0, err
		}
		csvFiles = csvFiles[:0]
		for _, f := range extracted {
			if strings.HasSuffix(f, ".csv") {
				csvFiles = append(csvFiles, f)
			}
		}
		if len(csvFiles) == 0 {
			return 0, errors.New("archive holds no csv file")
		}
	}

	var totalRows, duplicates, imported int
	for _, path := range csvFiles {
		a, err := analyzeCsv(path)
		if err != nil {
			return imported, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		n, err := s.store(ctx, file.FileName, a)
		if err != nil {
			return imported, err
		}
		totalRows += a.TotalRows
		duplicates += len(a.Duplicates)
		imported += n
	}

	err := s.db.WithContext(ctx).Model(&entities.LeadFileHistory{}).Where("id = ?", file.ID).Updates(map[string]any{
		"status":           enums.IMPORTED,
		"total_rows":       totalRows,
		"imported_leads":   imported,
		"duplicate_phones": duplicates,
		"last_error":       "",
	}).Error
	if err != nil {
		return imported, fmt.Errorf("mark lead file imported: %w", err)
	}
	return imported, nil
}

func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// download fetches the file with basic auth into dir and returns its path.
func (s *LeadFileService) download(ctx context.Context, fileName, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.server.URL, "/")+"/"+fileName, nil)
	if err != nil {
		return "", err
	}
	req.Header.Add("Authorization", "Basic "+basicAuth(s.server.Username, s.server.Password))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", fileName, err)
	}
	logger.FromContext(ctx).Debug("lead file downloaded", zap.String("file", fileName), zap.Int64("bytes", written))
	return path, nil
}

// updateFileHistoryStatus is best effort; a failed status write is only logged.
func (s *LeadFileService) updateFileHistoryStatus(ctx context.Context, id uint, status string, cause error) {
	updates := map[string]any{"status": status}
	if cause != nil {
		updates["last_error"] = cause.Error()
	}
	if err := s.db.WithContext(ctx).Model(&entities.LeadFileHistory{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.FromContext(ctx).Warn("lead file status update failed", zap.Uint("id", id), zap.String("status", status), zap.Error(err))
	}
}

func cleanupFolder(ctx context.Context, folderPath string) {
	if err := os.RemoveAll(folderPath); err != nil {
		logger.FromContext(ctx).Warn("failed to remove folder", zap.String("path", folderPath), zap.Error(err))
	}
}

// analyzeCsv reads every column as text so phone numbers keep their leading zeros.
func analyzeCsv(path string) (Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return Analysis{}, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return Analysis{}, fmt.Errorf("read csv: %w", df.Err)
	}
	hasDomain := false
	hasPhone := false
	for _, name := range df.Names() {
		hasPhone = hasPhone || name == "phone"
		hasDomain = hasDomain || name == "domain"
	}
	if !hasPhone {
		return Analysis{}, ErrMissingPhoneColumn
	}

	a := Analysis{TotalRows: df.Nrow(), Duplicates: map[string]int{}, Domains: map[string][]string{}}

	// group on the normalised number so spacing variants of one phone count as duplicates
	phones := df.Col("phone").Records()
	for i, p := range phones {
		phones[i] = normalizePhone(p)
	}
	df = df.Mutate(series.New(phones, series.String, "phone"))
	if df.Err != nil {
		return Analysis{}, fmt.Errorf("normalise phones: %w", df.Err)
	}

	valid := df.Filter(dataframe.F{
		Colname:    "phone",
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && el.String() != ""
		},
	})
	if valid.Err != nil {
		return Analysis{}, fmt.Errorf("filter phones: %w", valid.Err)
	}
	if valid.Nrow() == 0 {
		return a, nil
	}

	groups := valid.GroupBy("phone")
	if groups.Err != nil {
		return Analysis{}, fmt.Errorf("group phones: %w", groups.Err)
	}
	for phone, g := range groups.GetGroups() {
		a.Phones = append(a.Phones, phone)
		if g.Nrow() > 1 {
			a.Duplicates[phone] = g.Nrow()
		}
		if !hasDomain {
			continue
		}
		seen := map[string]bool{}
		for _, d := range g.Col("domain").Records() {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" || d == "nan" || seen[d] {
				continue
			}
			seen[d] = true
			a.Domains[phone] = append(a.Domains[phone], d)
		}
	}
	sort.Strings(a.Phones)
	return a, nil
}

// store writes one analysed file in a single transaction and returns how many leads were new.
func (s *LeadFileService) store(ctx context.Context, fileName string, a Analysis) (int, error) {
	var imported int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(a.Duplicates) > 0 {
			history := make([]entities.LeadPhoneDuplicateHistory, 0, len(a.Duplicates))
			for _, phone := range a.Phones {
				if n, ok := a.Duplicates[phone]; ok {
					history = append(history, entities.LeadPhoneDuplicateHistory{Phone: phone, DuplicateCount: n, FileName: fileName})
				}
			}
			if err := tx.CreateInBatches(&history, batchSize).Error; err != nil {
				return fmt.Errorf("save duplicate phones: %w", err)
			}
		}

		if len(a.Phones) > 0 {
			leads := make([]entities.Lead, len(a.Phones))
			for i, phone := range a.Phones {
				leads[i] = entities.Lead{Phone: phone, Source: SOURCE_IMPORT, Status: enums.LEAD_NEW}
			}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).CreateInBatches(&leads, batchSize)
			if res.Error != nil {
				return fmt.Errorf("save leads: %w", res.Error)
			}
			imported = int(res.RowsAffected)
		}

		if len(a.Domains) == 0 {
			return nil
		}
		names := map[string]bool{}
		var relations []entities.LeadDomainRelations
		for _, phone := range a.Phones {
			for _, d := range a.Domains[phone] {
				names[d] = true
				relations = append(relations, entities.LeadDomainRelations{Phone: phone, Domain: d})
			}
		}
		domains := make([]entities.LeadDomain, 0, len(names))
		for name := range names {
			domains = append(domains, entities.LeadDomain{Name: name})
		}
		sort.Slice(domains, func(i, j int) bool { return domains[i].Name < domains[j].Name })

		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).CreateInBatches(&domains, batchSize).Error; err != nil {
			return fmt.Errorf("save lead domains: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}, {Name: "domain"}}, DoNothing: true}).CreateInBatches(&relations, batchSize).Error; err != nil {
			return fmt.Errorf("save lead domain relations: %w", err)
		}
		return nil
	})
	return imported, err
}

// extractTarGz unpacks regular files into targetDir, refusing entries that would land
// outside it.
func extractTarGz(ctx context.Context, tarGzFile, targetDir string) ([]string, error) {
	var extractedFiles []string

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}
	root := filepath.Clean(targetDir) + string(os.PathSeparator)

	f, err := os.Open(tarGzFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open tar.gz file: %w", err)
	}
	defer f.Close()

	gzf, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzf.Close()

	tarReader := tar.NewReader(gzf)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar header: %w", err)
		}

		targetFile := filepath.Join(targetDir, filepath.Clean(header.Name))
		if !strings.HasPrefix(targetFile, root) {
			return nil, fmt.Errorf("illegal path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetFile, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetFile), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
			if err := writeFile(targetFile, tarReader, os.FileMode(header.Mode)); err != nil {
				return nil, err
			}
			extractedFiles = append(extractedFiles, targetFile)
		default:
			logger.FromContext(ctx).Debug("skipping unsupported tar entry", zap.String("name", header.Name), zap.Uint8("type", header.Typeflag))
		}
	}
	return extractedFiles, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return nil
}
