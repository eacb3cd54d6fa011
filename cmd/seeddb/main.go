package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gorm.io/gorm/clause"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/config"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/storage"
)

// seeddb 从站点目录页面导入捐赠站点数据。
// 目录是一个带data属性的HTML页面，来自运营团队维护的站点名录导出。
func main() {
	catalogPath := flag.String("catalog", "assets/storages.html", "站点目录HTML文件路径")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	database.InitDB(cfg.Database)

	if err := database.DB.AutoMigrate(&storage.Storage{}, &storage.MissingItemRequest{}, &metadata.Metadata{}); err != nil {
		panic(fmt.Sprintf("无法迁移数据库表: %v", err))
	}

	file, err := os.Open(*catalogPath)
	if err != nil {
		panic(fmt.Sprintf("无法打开站点目录文件 %s: %v", *catalogPath, err))
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		panic(fmt.Sprintf("无法解析站点目录HTML: %v", err))
	}

	version, _ := doc.Find("body").Attr("data-catalog-version")
	if version == "" {
		version = "unknown"
	}

	imported := 0
	importedNeeds := 0
	doc.Find(".storage-entry").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		lat, _ := s.Attr("data-lat")
		lon, _ := s.Attr("data-lon")
		if id == "" {
			fmt.Printf("警告: 第 %d 个条目缺少data-id，已跳过。\n", i+1)
			return
		}
		latitude, errLat := strconv.ParseFloat(lat, 64)
		longitude, errLon := strconv.ParseFloat(lon, 64)
		if errLat != nil || errLon != nil {
			fmt.Printf("警告: 站点 %s 的坐标无法解析，已跳过。\n", id)
			return
		}

		entry := storage.Storage{
			StorageID:   id,
			Name:        strings.TrimSpace(s.Find(".name").Text()),
			Address:     strings.TrimSpace(s.Find(".address").Text()),
			City:        strings.TrimSpace(s.Find(".city").Text()),
			Latitude:    latitude,
			Longitude:   longitude,
			Description: strings.TrimSpace(s.Find(".description").Text()),
		}

		// 以StorageID为冲突键做upsert，重复导入是幂等的
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "address", "city", "latitude", "longitude", "description"}),
		}).Create(&entry).Error
		if err != nil {
			fmt.Printf("警告: 导入站点 %s 失败: %v\n", id, err)
			return
		}
		imported++

		// 条目内的.need子元素是站点申报的紧缺物资需求
		s.Find(".need").Each(func(_ int, n *goquery.Selection) {
			itemName := strings.TrimSpace(n.Text())
			if itemName == "" {
				return
			}
			urgency, _ := strconv.Atoi(n.AttrOr("data-urgency", "1"))
			quantity, _ := strconv.Atoi(n.AttrOr("data-quantity", "0"))
			bonus, _ := strconv.ParseInt(n.AttrOr("data-bonus", "50"), 10, 64)

			request := storage.MissingItemRequest{
				StorageID:         id,
				ItemName:          itemName,
				UrgencyLevel:      urgency,
				RequestedQuantity: quantity,
				BonusPoints:       bonus,
			}
			var existing int64
			database.DB.Model(&storage.MissingItemRequest{}).
				Where("storage_id = ? AND item_name = ? AND fulfilled = ?", id, itemName, false).
				Count(&existing)
			if existing > 0 {
				return
			}
			if err := database.DB.Create(&request).Error; err != nil {
				fmt.Printf("警告: 导入站点 %s 的需求 %s 失败: %v\n", id, itemName, err)
				return
			}
			importedNeeds++
		})
	})

	if imported == 0 {
		panic("没有导入任何站点，请检查目录文件格式")
	}

	if err := metadata.SetValue(database.DB, metadata.CatalogSeedVersionKey, version); err != nil {
		panic(fmt.Sprintf("无法记录目录版本: %v", err))
	}

	fmt.Printf("站点目录导入完成: %d 个站点, %d 条物资需求 (版本 %s)。\n", imported, importedNeeds, version)
}
